package domain

// Image describes an uploaded school image held by the object store.
type Image struct {
	FileName    string `json:"fileName"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Hash        string `json:"hash"`
}

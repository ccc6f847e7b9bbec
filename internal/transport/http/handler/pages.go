package handler

import (
	"html/template"
	"net/http"

	"github.com/school-directory/internal/application/school"
	"github.com/school-directory/internal/domain"
	"github.com/school-directory/internal/logger"
	"go.uber.org/zap"
)

var pages = template.Must(template.New("layout").Parse(`{{define "layout"}}<!doctype html>
<html lang="en"><head><meta charset="utf-8"><title>{{.Title}} | School Directory</title></head>
<body>
<nav><a href="/">Home</a> | <a href="/show-schools">Schools</a> | <a href="/add-school">Add school</a></nav>
<h1>{{.Title}}</h1>
{{template "body" .}}
</body></html>{{end}}`))

var (
	homePage = template.Must(template.Must(pages.Clone()).Parse(`{{define "body"}}<p>Browse the directory or sign in to add a school.</p>{{end}}`))

	schoolsPage = template.Must(template.Must(pages.Clone()).Parse(`{{define "body"}}{{if .Schools}}<ul>
{{range .Schools}}<li>{{if .Image}}<img src="{{.Image}}" alt="" width="64"> {{end}}<strong>{{.Name}}</strong>, {{.Address}}, {{.City}}</li>
{{end}}</ul>{{else}}<p>No schools yet.</p>{{end}}{{end}}`))

	addSchoolPage = template.Must(template.Must(pages.Clone()).Parse(`{{define "body"}}<form method="post" action="/api/schools">
<input name="name" placeholder="Name" required>
<input name="address" placeholder="Address" required>
<input name="city" placeholder="City" required>
<input name="state" placeholder="State" required>
<input name="contact" placeholder="Contact" required>
<input name="email_id" type="email" placeholder="Email" required>
<button type="submit">Add school</button>
</form>{{end}}`))

	loginPage = template.Must(template.Must(pages.Clone()).Parse(`{{define "body"}}<form id="login">
<input name="email" type="email" placeholder="Email" required>
<input name="otp" placeholder="6-digit code" maxlength="6">
<input type="hidden" name="redirect" value="{{.Redirect}}">
<button type="submit">Continue</button>
</form>
<script>
document.getElementById("login").addEventListener("submit", async (e) => {
  e.preventDefault();
  const f = e.target;
  const body = {email: f.email.value};
  if (!f.otp.value) {
    await fetch("/auth/send-otp", {method: "POST", headers: {"Content-Type": "application/json"}, body: JSON.stringify(body)});
    return;
  }
  body.otp = f.otp.value;
  const res = await fetch("/auth/verify-otp", {method: "POST", headers: {"Content-Type": "application/json"}, body: JSON.stringify(body)});
  if (res.ok) location.href = f.redirect.value || "/";
});
</script>{{end}}`))
)

type pageData struct {
	Title    string
	Schools  []domain.School
	Redirect string
}

// PageHandler renders the minimal HTML pages the Route Guard sits in front of.
type PageHandler struct {
	schools school.Service
}

func NewPageHandler(schools school.Service) *PageHandler { return &PageHandler{schools: schools} }

func (h *PageHandler) Home(w http.ResponseWriter, _ *http.Request) {
	render(w, homePage, pageData{Title: "School Directory"})
}

func (h *PageHandler) ShowSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := h.schools.List(r.Context())
	if err != nil {
		logger.Error("list schools for page", zap.Error(err))
		http.Error(w, "Failed to fetch schools", http.StatusInternalServerError)
		return
	}
	render(w, schoolsPage, pageData{Title: "Schools", Schools: schools})
}

func (h *PageHandler) AddSchool(w http.ResponseWriter, _ *http.Request) {
	render(w, addSchoolPage, pageData{Title: "Add school"})
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	redirect := r.URL.Query().Get("redirect")
	if len(redirect) == 0 || redirect[0] != '/' || (len(redirect) > 1 && (redirect[1] == '/' || redirect[1] == '\\')) {
		redirect = "/"
	}
	render(w, loginPage, pageData{Title: "Sign in", Redirect: redirect})
}

func render(w http.ResponseWriter, t *template.Template, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		logger.Error("render page", zap.Error(err))
	}
}

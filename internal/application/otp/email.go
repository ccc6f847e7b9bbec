package otp

import (
	"fmt"
	"time"
)

const EmailSubject = "Your Login OTP - School Management System"

// EmailBody renders the HTML message carrying code.
func EmailBody(code string, validity time.Duration) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #2563eb; margin: 0;">School Management System</h1>
  </div>
  <div style="background-color: #f8fafc; padding: 30px; border-radius: 8px; border-left: 4px solid #2563eb;">
    <h2 style="color: #1e293b; margin-top: 0;">Your Login OTP</h2>
    <p style="color: #475569; font-size: 16px;">Use this one-time password to sign in:</p>
    <div style="background-color: #ffffff; padding: 20px; margin: 25px 0; text-align: center; border-radius: 6px; border: 2px dashed #e2e8f0;">
      <h1 style="color: #2563eb; font-size: 36px; margin: 0; letter-spacing: 8px; font-family: 'Courier New', monospace;">%s</h1>
    </div>
    <p style="color: #92400e; margin: 0; font-weight: 500;">This OTP is valid for %d minutes only.</p>
  </div>
  <p style="color: #64748b; font-size: 14px; margin-top: 30px;">If you didn't request this login, please ignore this email.</p>
</div>
`, code, int(validity.Minutes()))
}

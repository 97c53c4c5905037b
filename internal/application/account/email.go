package account

import "fmt"

func verificationEmailHTML(link, email string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: auto;">
  <h2>Verify Your Email</h2>
  <p>Thanks for signing up with <strong>%s</strong>. Click the button below to verify your email address.</p>
  <a href="%s" style="background: #7c3aed; color: white; padding: 12px 24px; text-decoration: none; border-radius: 8px; display: inline-block;">Verify Email Address</a>
  <p style="margin-top: 20px; font-size: 12px; color: #64748b;">This link will expire in 24 hours. If you didn't create an account, you can safely ignore this email.</p>
</div>`, email, link)
}

func resetEmailHTML(link string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: auto;">
  <h2>Password Reset Request</h2>
  <p>You requested a password reset. Click the button below to set a new one. This link expires in 1 hour.</p>
  <a href="%s" style="background: #4f46e5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 8px; display: inline-block;">Reset Password</a>
  <p style="margin-top: 20px; font-size: 12px; color: #64748b;">If you didn't request this, you can safely ignore this email.</p>
</div>`, link)
}

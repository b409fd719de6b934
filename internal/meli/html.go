package meli

import (
	"html/template"
	"io"
)

// The callback always answers with a small HTML document meant to run
// inside the authorization popup: a close button, and on success a timed
// auto-close.

var successTmpl = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>Connection Successful</title>
  <meta charset="utf-8">
  <style>
    body {
      font-family: Arial, sans-serif;
      text-align: center;
      padding: 50px;
      background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
      color: white;
      margin: 0;
    }
    .container {
      background: white;
      color: #333;
      padding: 40px;
      border-radius: 10px;
      box-shadow: 0 10px 30px rgba(0,0,0,0.3);
      max-width: 500px;
      margin: 0 auto;
    }
  </style>
</head>
<body>
  <div class="container">
    <h1 style="color: #27ae60; margin-bottom: 20px;">Connection successful</h1>
    <p style="font-size: 18px; margin-bottom: 20px;">Your Mercado Livre account was connected using OAuth2 + PKCE.</p>
    {{if .ExternalAccountID}}<p style="color: #666; margin-bottom: 10px;"><strong>Mercado Livre user ID:</strong> {{.ExternalAccountID}}</p>{{end}}
    <p style="color: #666; margin-bottom: 30px;">You can close this window and return to the dashboard.</p>
    <button onclick="window.close()" style="padding: 12px 24px; background: #3498db; color: white; border: none; border-radius: 5px; cursor: pointer; font-size: 16px;">Close this window</button>
  </div>
  <script>
    setTimeout(function() {
      try { window.close(); } catch (e) {}
    }, 3000);
  </script>
</body>
</html>
`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>{{.Title}}</title>
  <meta charset="utf-8">
</head>
<body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
  <h1 style="color: #e74c3c;">{{.Title}}</h1>
  <p>{{.Message}}</p>
  {{if .Detail}}<p><strong>Details:</strong> {{.Detail}}</p>{{end}}
  <button onclick="window.close()" style="padding: 10px 20px; background: #3498db; color: white; border: none; border-radius: 5px; cursor: pointer;">Close this window</button>
</body>
</html>
`))

// RenderSuccessPage writes the terminal success page for the callback
// popup.
func RenderSuccessPage(w io.Writer, externalAccountID string) error {
	return successTmpl.Execute(w, struct {
		ExternalAccountID string
	}{externalAccountID})
}

// RenderErrorPage writes a terminal error page. Detail carries operator
// diagnostics such as the upstream status and body; it is escaped by the
// template like everything else.
func RenderErrorPage(w io.Writer, title, message, detail string) error {
	return errorTmpl.Execute(w, struct {
		Title   string
		Message string
		Detail  string
	}{title, message, detail})
}

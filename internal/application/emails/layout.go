package emails

import (
	"fmt"
	"html"
	"time"
)

const (
	themePrimary  = "#D97706"
	themeTextMain = "#1F2937"
	themeBgBody   = "#F3F4F6"
)

// EmailLayout wraps content in the shared HTML layout.
func EmailLayout(contentHTML string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>BiteBuddy</title>
</head>
<body style="margin:0;padding:24px;background-color:%s;color:%s;font-family:Helvetica,Arial,sans-serif;">
  <div style="max-width:560px;margin:0 auto;background:#FFFFFF;border-radius:8px;padding:32px;">
    <div style="font-size:20px;font-weight:700;color:%s;margin-bottom:24px;">BiteBuddy</div>
    %s
    <p style="margin-top:32px;font-size:12px;color:#6B7280;">&copy; %d BiteBuddy. Share food, not waste.</p>
  </div>
</body>
</html>`, themeBgBody, themeTextMain, themePrimary, contentHTML, time.Now().Year())
}

// EscapeHTML escapes user-supplied text for email bodies.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

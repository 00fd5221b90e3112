package admission

import "github.com/gin-gonic/gin"

// Hardening headers attached to every response from admission endpoints.
var hardeningHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "DENY",
	"X-XSS-Protection":       "1; mode=block",
}

func applyHardeningHeaders(c *gin.Context) {
	for name, value := range hardeningHeaders {
		c.Header(name, value)
	}
}

// respondError writes the failure envelope. The message must already be
// client-safe; internal detail belongs in the server log only.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondSuccess writes the success envelope with an optional data payload.
func respondSuccess(c *gin.Context, message string, data gin.H) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(200, body)
}

package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

type responder struct{ c *gin.Context }

// wantsJSON honours ?format=json as well as the Accept header, for clients
// that cannot set headers.
func (r responder) wantsJSON() bool {
	if strings.EqualFold(r.c.Query("format"), "json") {
		return true
	}
	accept := strings.ToLower(r.c.GetHeader("Accept"))
	return strings.Contains(accept, "application/json")
}

func (r responder) err(status int, msg string) {
	if r.wantsJSON() {
		r.c.JSON(status, gin.H{"error": msg})
		return
	}
	r.c.String(status, msg)
}

func (r responder) ok(text string, payload gin.H, requestID string) {
	r.c.Header(requestIDHeader, requestID)
	if r.wantsJSON() {
		out := gin.H{"request_id": requestID}
		for k, v := range payload {
			out[k] = v
		}
		r.c.JSON(http.StatusOK, out)
		return
	}
	r.c.String(http.StatusOK, text+"\nrequest_id: "+requestID)
}

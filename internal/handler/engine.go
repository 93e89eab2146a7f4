package handler

import "github.com/gin-gonic/gin"

// NewEngine returns a bare gin engine that matches routes on the escaped path and unescapes
// path params afterwards. Alert IDs embed class and unit names, so a "/" inside one must be
// sent as %2F and still land on /alerts/:id/actions.
func NewEngine() *gin.Engine {
	r := gin.New()
	r.UseRawPath = true
	r.UnescapePathValues = true
	return r
}

package modules

import "github.com/gin-gonic/gin"

// Guards are the shared middlewares modules attach to their groups.
type Guards struct {
	Auth  gin.HandlerFunc // requires a valid access token
	Write gin.HandlerFunc // per-IP limit on mutating requests
	Login gin.HandlerFunc // stricter per-IP limit on credential endpoints
}

// protected returns a group under path that requires auth and is write-limited.
func (g Guards) protected(rg *gin.RouterGroup, path string) *gin.RouterGroup {
	grp := rg.Group(path)
	grp.Use(g.Auth, g.Write)
	return grp
}

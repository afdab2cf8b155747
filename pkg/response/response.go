package response

import (
    "net/http"

    "github.com/gin-gonic/gin"
)

// Success 200 响应，固定携带 success=true，fields 平铺进响应体
func Success(c *gin.Context, fields gin.H) {
    body := gin.H{"success": true}
    for k, v := range fields {
        body[k] = v
    }
    c.JSON(http.StatusOK, body)
}

// BadRequest 400 响应
func BadRequest(c *gin.Context, msg string) {
    c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

// InternalError 500 响应
func InternalError(c *gin.Context, err error) {
    c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}

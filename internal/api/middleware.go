package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// jwtMiddleware проверяет JWT токен в заголовке Authorization
func (rs *RestServer) jwtMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			fail(c, http.StatusUnauthorized, "Отсутствует токен авторизации")
			return
		}

		// Проверяем формат "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			fail(c, http.StatusUnauthorized, "Неверный формат токена")
			return
		}

		if rs.issuer == nil {
			fail(c, http.StatusServiceUnavailable, "Авторизация не настроена")
			return
		}
		claims, err := rs.issuer.Validate(parts[1])
		if err != nil {
			fail(c, http.StatusUnauthorized, "Недействительный токен")
			return
		}

		c.Set("operator", claims.Operator)
		c.Set("is_admin", claims.IsAdmin)
		c.Next()
	}
}

// adminMiddleware проверяет, что оператор является администратором
func (rs *RestServer) adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("is_admin") {
			fail(c, http.StatusForbidden, "Недостаточно прав доступа")
			return
		}
		rs.log.Info("🛠️ %s: %s %s", c.GetString("operator"), c.Request.Method, c.FullPath())
		c.Next()
	}
}

package utils

import (
	"darkom-server/models"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UserIDFromTokenMiddleware extracts the user ID from the JWT access
// token and stores it in the request context for downstream handlers.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("accountKind", claims.AccountKind)
	ctx.Next()
}

// BackOfficeOnlyMiddleware restricts a route to agency and admin accounts.
func BackOfficeOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.AccountKind != models.AccountKindAgency && claims.AccountKind != models.AccountKindAdmin {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "back-office access required"})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("accountKind", claims.AccountKind)
	ctx.Next()
}

// AdminOnlyMiddleware restricts a route to admin accounts.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.AccountKind != models.AccountKindAdmin {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "admin access required"})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

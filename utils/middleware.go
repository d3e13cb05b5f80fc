package utils

import (
	"goagent-server/models"
	"goagent-server/storage"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UserIDFromTokenMiddleware extracts user ID from JWT token and stores it in context
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// AdminOnlyMiddleware ensures the requester holds the ADMIN role
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != models.RoleAdmin {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "admin access required"})
		return
	}
	// Ensure userID is available to downstream handlers
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// AgreementRequiredMiddleware blocks product use until the user has signed
// the field-agent agreement. The check re-reads the profile row on every
// request; a signature can never be revoked, so the gate only ever opens.
func AgreementRequiredMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)

	var user models.User
	if err := storage.DB.Select("id, agreement_signed").First(&user, claims.ID).Error; err != nil {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "profile not found"})
		return
	}

	if !user.HasSignedAgreement() {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "agreement_required", "message": "the field-agent agreement must be signed first"})
		return
	}
	ctx.Next()
}

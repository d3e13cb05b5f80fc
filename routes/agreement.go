package routes

import (
	"time"

	"goagent-server/models"
	"goagent-server/storage"
	"goagent-server/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// SignAgreement records the one-time acceptance of the field-agent
// agreement. Signing is idempotent: a repeat call succeeds without
// touching the original timestamp or IP, and nothing ever unsets the
// signature. The recorded IP is the forwarded client address and has no
// evidential value.
func SignAgreement(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if user.HasSignedAgreement() {
		ctx.JSON(user)
		return
	}

	before := user

	signed := true
	now := time.Now().UTC()
	user.AgreementSigned = &signed
	user.AgreementTimestamp = &now
	user.AgreementIP = utils.ClientIP(ctx)

	if err := storage.DB.Save(&user).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "sync_failure", utils.ErrorMessage(err))
		return
	}

	utils.Audit(ctx, "user.agreement_signed", "user", user.ID, before, user)

	ctx.JSON(user)
}

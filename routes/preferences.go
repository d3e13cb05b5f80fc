package routes

import (
	"goagent-server/storage"
	"goagent-server/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// Preference lists backing the drive form's pickers. Per-user
// configuration data, not domain data. The store is swappable so tests
// don't need Redis.
var Preferences storage.ConfigStore

func preferenceStore() storage.ConfigStore {
	if Preferences == nil {
		Preferences = storage.NewConfigStore()
	}
	return Preferences
}

func getPreferenceList(ctx iris.Context, kind string) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	values, err := preferenceStore().GetList(ctx.Request().Context(), claims.ID, kind)
	if err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "sync_failure", utils.ErrorMessage(err))
		return
	}
	ctx.JSON(iris.Map{"data": values})
}

func setPreferenceList(ctx iris.Context, kind string) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var body struct {
		Values []string `json:"values"`
	}
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := preferenceStore().SetList(ctx.Request().Context(), claims.ID, kind, body.Values); err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "sync_failure", utils.ErrorMessage(err))
		return
	}
	ctx.JSON(iris.Map{"data": body.Values})
}

func GetFeaturePreferences(ctx iris.Context)  { getPreferenceList(ctx, storage.PrefFeatures) }
func SetFeaturePreferences(ctx iris.Context)  { setPreferenceList(ctx, storage.PrefFeatures) }
func GetFeedbackPreferences(ctx iris.Context) { getPreferenceList(ctx, storage.PrefFeedbacks) }
func SetFeedbackPreferences(ctx iris.Context) { setPreferenceList(ctx, storage.PrefFeedbacks) }

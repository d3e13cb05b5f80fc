package routes

import (
	"errors"
	"net/http"
	"strings"

	"goagent-server/models"
	"goagent-server/services"
	"goagent-server/storage"
	"goagent-server/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// AdminListSubmissions - GET /admin/submissions?status=&state=&q=&page=&per_page=
func AdminListSubmissions(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.DriveSubmission{})
	if status := strings.TrimSpace(ctx.URLParamDefault("status", "")); status != "" {
		query = query.Where("status = ?", status)
	}
	if state := strings.TrimSpace(ctx.URLParamDefault("state", "")); state != "" {
		query = query.Where("state_location = ?", state)
	}
	if q := strings.TrimSpace(ctx.URLParamDefault("q", "")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(property_name) LIKE ? OR lower(property_address) LIKE ? OR lower(agent_name) LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)

	var submissions []*models.DriveSubmission
	query = query.Order("submission_date DESC").Offset((page - 1) * perPage).Limit(perPage)
	if err := query.Find(&submissions).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", utils.ErrorMessage(err))
		return
	}

	utils.JSONPage(ctx, submissions, page, perPage, total)
}

// AdminUpdateSubmissionStatus - PATCH /admin/submissions/{id}/status
// Advances a submission along the lifecycle graph. An optional manual note
// is merged into the stored verification. Two admins racing on the same
// row resolve last-write-wins.
func AdminUpdateSubmissionStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_id"})
		return
	}

	var body UpdateStatusInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var submission models.DriveSubmission
	if err := storage.DB.First(&submission, id).Error; err != nil {
		ctx.StopWithJSON(http.StatusNotFound, iris.Map{"error": "not_found"})
		return
	}

	before := submission

	var verification *models.VerificationResult
	if body.ManualNote != "" {
		claims := jsonWT.Get(ctx).(*utils.AccessToken)
		merged := submission.GetVerification()
		if merged == nil {
			merged = &models.VerificationResult{
				Verdict: models.VerdictInconclusive,
				Sources: []models.VerificationSource{},
			}
		}
		merged.ManualNote = body.ManualNote
		merged.VerifiedBy = claims.Email
		verification = merged
	}

	if err := services.Advance(&submission, body.Status, verification); err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_transition", utils.ErrorMessage(err))
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", utils.ErrorMessage(err))
		return
	}

	updates := map[string]interface{}{"status": submission.Status}
	if verification != nil {
		updates["verification"] = submission.Verification
	}
	if err := storage.DB.Model(&models.DriveSubmission{}).Where("id = ?", submission.ID).Updates(updates).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", utils.ErrorMessage(err))
		return
	}

	utils.Audit(ctx, "submission.status_update", "submission", submission.ID, before, submission)

	ctx.JSON(iris.Map{"data": &submission})
}

// AdminVerifySubmission - POST /admin/submissions/{id}/verify
// Runs the verification oracle and stores its verdict, replacing any
// previous one. The endpoint always answers with a structured result; an
// oracle failure is an INCONCLUSIVE verdict, not an error.
func AdminVerifySubmission(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_id"})
		return
	}

	var submission models.DriveSubmission
	if err := storage.DB.First(&submission, id).Error; err != nil {
		ctx.StopWithJSON(http.StatusNotFound, iris.Map{"error": "not_found"})
		return
	}

	before := submission

	oracle := services.NewVerificationService()
	result := oracle.Verify(ctx.Request().Context(), &submission)

	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	result.VerifiedBy = claims.Email

	if err := submission.SetVerification(result); err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", utils.ErrorMessage(err))
		return
	}

	if err := storage.DB.Model(&models.DriveSubmission{}).Where("id = ?", submission.ID).Update("verification", submission.Verification).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", utils.ErrorMessage(err))
		return
	}

	utils.Audit(ctx, "submission.verified", "submission", submission.ID, before, submission)

	ctx.JSON(iris.Map{"data": result})
}

// AdminListAgents - GET /admin/agents?role=&q=&page=&per_page=
func AdminListAgents(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	var users []models.User
	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	role := strings.TrimSpace(ctx.URLParamDefault("role", ""))

	query := storage.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(full_name) LIKE ? OR lower(email) LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)
	query = query.Offset((page - 1) * perPage).Limit(perPage)
	if err := query.Find(&users).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", utils.ErrorMessage(err))
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

type UpdateStatusInput struct {
	Status     string `json:"status" validate:"required"`
	ManualNote string `json:"manualNote"`
}

package routes

import (
	"encoding/json"
	"fmt"
	"time"

	"goagent-server/models"
	"goagent-server/services"
	"goagent-server/storage"
	"goagent-server/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

func CreateSubmission(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input CreateSubmissionInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// The GPS gate: a drive without a capture location is not accepted
	if input.Coordinates == nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "GPS coordinates are required to confirm your physical presence at the site.", ctx)
		return
	}

	commission, commissionErr := services.ComputeCommission(input.NoOfUnits)
	if commissionErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", utils.ErrorMessage(commissionErr), ctx)
		return
	}

	if !utils.ValidatePhoneNumber(input.ContactPhone) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid contact phone number format.", ctx)
		return
	}

	var agent models.User
	if err := storage.DB.First(&agent, claims.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Ensure arrays are never null
	features := input.FeaturesInterested
	if features == nil {
		features = []string{}
	}
	featuresJSON, _ := json.Marshal(features)

	channels := input.MarketingChannels
	if channels == nil {
		channels = []string{}
	}
	channelsJSON, _ := json.Marshal(channels)

	coordsJSON, _ := json.Marshal(models.Coordinates{Lat: input.Coordinates.Lat, Lng: input.Coordinates.Lng})

	// Photo upload is best-effort; a drive is not rejected because
	// Cloudinary is down
	photoURL := ""
	if input.PropertyPhoto != "" {
		publicID := fmt.Sprintf("drives/%d/photo_%d", claims.ID, time.Now().UnixMilli())
		photoURL = storage.UploadBase64Image(input.PropertyPhoto, publicID)
	}

	submission := models.DriveSubmission{
		AgentID:        agent.ID,
		AgentName:      agent.FullName,
		AgentStatus:    input.AgentStatus,
		SubmissionDate: time.Now().UTC(),
		Status:         models.StatusPending,

		PropertyName:     input.PropertyName,
		PropertyAddress:  input.PropertyAddress,
		StateLocation:    input.StateLocation,
		PropertyCategory: input.PropertyCategory,
		PropertyType:     input.PropertyType,
		NoOfUnits:        input.NoOfUnits,
		OccupancyRate:    input.OccupancyRate,
		MeteringType:     input.MeteringType,

		Coordinates:   coordsJSON,
		PropertyPhoto: photoURL,

		LandlordName:   input.LandlordName,
		ManagementType: input.ManagementType,
		ContactPhone:   utils.NormalizePhoneNumber(input.ContactPhone),

		InterestLevel:      input.InterestLevel,
		FeaturesInterested: featuresJSON,
		SubscriptionType:   input.SubscriptionType,
		MarketingChannels:  channelsJSON,
		Feedback:           input.Feedback,

		EstimatedCommission: commission,
	}

	if err := storage.DB.Create(&submission).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "sync_failure", utils.ErrorMessage(err))
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&submission)
}

// ListSubmissions is role-scoped: agents see their own drives, admins see
// everything. Newest first.
func ListSubmissions(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	query := storage.DB.Model(&models.DriveSubmission{}).Order("submission_date DESC")
	if claims.Role != models.RoleAdmin {
		query = query.Where("agent_id = ?", claims.ID)
	}
	if status := ctx.URLParamDefault("status", ""); status != "" {
		query = query.Where("status = ?", status)
	}

	// Pointer slice so the custom MarshalJSON applies per element
	var submissions []*models.DriveSubmission
	if err := query.Find(&submissions).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "sync_failure", utils.ErrorMessage(err))
		return
	}

	ctx.JSON(submissions)
}

func GetSubmission(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid submission id.", ctx)
		return
	}

	var submission models.DriveSubmission
	if err := storage.DB.First(&submission, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if claims.Role != models.RoleAdmin && submission.AgentID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	ctx.JSON(&submission)
}

type CoordinatesInput struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CreateSubmissionInput struct {
	AgentStatus      string            `json:"agentStatus" validate:"required,oneof=In-house Freelance"`
	PropertyName     string            `json:"propertyName" validate:"required,max=256"`
	PropertyAddress  string            `json:"propertyAddress" validate:"required,max=512"`
	StateLocation    string            `json:"stateLocation" validate:"required"`
	PropertyCategory string            `json:"propertyCategory" validate:"required,oneof=Residential Commercial"`
	PropertyType     string            `json:"propertyType" validate:"required"`
	NoOfUnits        int               `json:"noOfUnits"`
	OccupancyRate    int               `json:"occupancyRate" validate:"min=0,max=100"`
	MeteringType     string            `json:"meteringType"`
	Coordinates      *CoordinatesInput `json:"coordinates"`
	PropertyPhoto    string            `json:"propertyPhoto"`
	LandlordName     string            `json:"landlordName" validate:"required"`
	ManagementType   string            `json:"managementType" validate:"required,oneof=Individual Company"`
	ContactPhone     string            `json:"contactPhone" validate:"required"`
	InterestLevel    string            `json:"interestLevel" validate:"required,oneof=High Medium Low"`

	FeaturesInterested []string `json:"featuresInterested"`
	SubscriptionType   string   `json:"subscriptionType"`
	MarketingChannels  []string `json:"marketingChannels"`
	Feedback           string   `json:"feedback"`
}

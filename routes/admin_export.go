package routes

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"goagent-server/models"
	"goagent-server/storage"

	"github.com/kataras/iris/v12"
)

type exportJob struct {
	ID        string `json:"id"`
	Resource  string `json:"resource"`
	Status    string `json:"status"` // pending, processing, done, failed
	Error     string `json:"error,omitempty"`
	CreatedAt int64  `json:"created_at"`
	csvData   []byte
}

var (
	exportJobs   = map[string]*exportJob{}
	exportJobsMu sync.Mutex
)

// POST /admin/export { resource: string, filters: object }
func AdminCreateExport(ctx iris.Context) {
	var body struct {
		Resource string                 `json:"resource"`
		Filters  map[string]interface{} `json:"filters"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Resource == "" {
		ctx.StatusCode(http.StatusUnprocessableEntity)
		ctx.JSON(iris.Map{"error": "invalid_payload", "message": "resource required"})
		return
	}
	if body.Resource != "submissions" {
		ctx.StatusCode(http.StatusUnprocessableEntity)
		ctx.JSON(iris.Map{"error": "invalid_payload", "message": "unsupported resource: " + body.Resource})
		return
	}

	id := time.Now().Format("20060102150405.000000")
	job := &exportJob{ID: id, Resource: body.Resource, Status: "pending", CreatedAt: time.Now().Unix()}
	exportJobsMu.Lock()
	exportJobs[id] = job
	exportJobsMu.Unlock()

	status := ""
	if s, ok := body.Filters["status"].(string); ok {
		status = s
	}

	go runSubmissionExport(job, status)

	ctx.JSON(iris.Map{"data": iris.Map{"id": id, "status": job.Status}})
}

func runSubmissionExport(job *exportJob, status string) {
	exportJobsMu.Lock()
	job.Status = "processing"
	exportJobsMu.Unlock()

	query := storage.DB.Model(&models.DriveSubmission{}).Order("submission_date DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var submissions []models.DriveSubmission
	err := query.Find(&submissions).Error

	exportJobsMu.Lock()
	defer exportJobsMu.Unlock()

	if err != nil {
		job.Status = "failed"
		job.Error = err.Error()
		return
	}

	data, err := renderSubmissionsCSV(submissions)
	if err != nil {
		job.Status = "failed"
		job.Error = err.Error()
		return
	}

	job.csvData = data
	job.Status = "done"
}

func renderSubmissionsCSV(submissions []models.DriveSubmission) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"id", "submission_date", "status", "agent_name", "property_name",
		"property_address", "state", "category", "type", "units",
		"occupancy_rate", "metering_type", "landlord_name", "contact_phone",
		"interest_level", "estimated_commission", "verification_verdict",
		"verification_score",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range submissions {
		s := &submissions[i]
		verdict, score := "", ""
		if v := s.GetVerification(); v != nil {
			verdict = v.Verdict
			score = strconv.Itoa(v.Score)
		}
		record := []string{
			strconv.FormatUint(uint64(s.ID), 10),
			s.SubmissionDate.Format(time.RFC3339),
			s.Status,
			s.AgentName,
			s.PropertyName,
			s.PropertyAddress,
			s.StateLocation,
			s.PropertyCategory,
			s.PropertyType,
			strconv.Itoa(s.NoOfUnits),
			strconv.Itoa(s.OccupancyRate),
			s.MeteringType,
			s.LandlordName,
			s.ContactPhone,
			s.InterestLevel,
			strconv.FormatInt(s.EstimatedCommission, 10),
			verdict,
			score,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// GET /admin/export/{id}
func AdminGetExport(ctx iris.Context) {
	id := ctx.Params().GetString("id")
	exportJobsMu.Lock()
	job, ok := exportJobs[id]
	exportJobsMu.Unlock()
	if !ok {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "not_found", "message": "job not found"})
		return
	}
	ctx.JSON(iris.Map{"data": job})
}

// GET /admin/export/{id}/download
func AdminDownloadExport(ctx iris.Context) {
	id := ctx.Params().GetString("id")
	exportJobsMu.Lock()
	job, ok := exportJobs[id]
	var data []byte
	var status string
	if ok {
		data = job.csvData
		status = job.Status
	}
	exportJobsMu.Unlock()

	if !ok {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "not_found", "message": "job not found"})
		return
	}
	if status != "done" {
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{"error": "not_ready", "message": "export is " + status})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="submissions-%s.csv"`, id))
	ctx.ContentType("text/csv")
	ctx.Write(data)
}

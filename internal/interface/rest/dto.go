package rest

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"personnel-tracker/internal/domain/entity"
)

type markRequest struct {
	PersonID string `json:"personId"`
	Remarks  string `json:"remarks"`
}

type remarksRequest struct {
	Remarks *string `json:"remarks"`
}

type personnelRequest struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Photo       string `json:"photo"`
}

type personnelSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Photo string `json:"photo"`
}

type recordResponse struct {
	ID            string                    `json:"id"`
	PersonID      string                    `json:"personId"`
	Day           string                    `json:"day"`
	ArrivalTime   *time.Time                `json:"arrivalTime"`
	DepartureTime *time.Time                `json:"departureTime"`
	Remarks       string                    `json:"remarks"`
	IsPresent     bool                      `json:"isPresent"`
	Status        entity.Status             `json:"status"`
	WorkedMinutes *int64                    `json:"workedMinutes"`
	Personnel     *personnelSummaryResponse `json:"personnel"`
	CreatedAt     time.Time                 `json:"createdAt"`
	UpdatedAt     time.Time                 `json:"updatedAt"`
}

type personnelResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Description string    `json:"description"`
	Photo       string    `json:"photo"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type summaryResponse struct {
	Day       string                      `json:"day"`
	Headcount int                         `json:"headcount"`
	Arrived   int                         `json:"arrived"`
	OnSite    int                         `json:"onSite"`
	Departed  int                         `json:"departed"`
	Absent    int                         `json:"absent"`
	Records   []recordResponse            `json:"records"`
	Absentees []*personnelSummaryResponse `json:"absentees"`
}

func toSummaryResponse(p *entity.PersonnelSummary) *personnelSummaryResponse {
	if p == nil {
		return nil
	}
	return &personnelSummaryResponse{
		ID:    p.ID,
		Name:  p.Name,
		Role:  p.Role,
		Photo: p.Photo,
	}
}

func toRecordResponse(r *entity.PopulatedRecord) recordResponse {
	resp := recordResponse{
		ID:            r.ID,
		PersonID:      r.PersonID,
		Day:           entity.FormatDay(r.Day),
		ArrivalTime:   r.ArrivalTime,
		DepartureTime: r.DepartureTime,
		Remarks:       r.Remarks,
		IsPresent:     r.IsPresent,
		Status:        r.Status,
		Personnel:     toSummaryResponse(r.Personnel),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.Worked != nil {
		minutes := int64(r.Worked.Minutes())
		resp.WorkedMinutes = &minutes
	}
	return resp
}

func toRecordResponses(records []*entity.PopulatedRecord) []recordResponse {
	resp := make([]recordResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, toRecordResponse(r))
	}
	return resp
}

func toPersonnelResponse(p *entity.Personnel) personnelResponse {
	return personnelResponse{
		ID:          p.ID,
		Name:        p.Name,
		Role:        p.Role,
		Description: p.Description,
		Photo:       p.Photo,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toDailySummaryResponse(s *entity.DailySummary) summaryResponse {
	absentees := make([]*personnelSummaryResponse, 0, len(s.Absentees))
	for _, p := range s.Absentees {
		absentees = append(absentees, toSummaryResponse(p))
	}
	return summaryResponse{
		Day:       entity.FormatDay(s.Day),
		Headcount: s.Headcount,
		Arrived:   s.Arrived,
		OnSite:    s.OnSite,
		Departed:  s.Departed,
		Absent:    s.Absent(),
		Records:   toRecordResponses(s.Records),
		Absentees: absentees,
	}
}

var jsonNull = []byte("null")

// decodeRecordPatch reads a correction body. A key that is absent leaves the
// field untouched; an explicit null clears it.
func decodeRecordPatch(body []byte) (entity.RecordPatch, error) {
	var patch entity.RecordPatch

	var fields map[string]json.RawMessage
	// null decodes into a nil map without error
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return patch, entity.NewValidationError("body", "must be a JSON object")
	}

	var errs []entity.FieldError
	timeField := func(name string) *entity.TimeChange {
		raw, ok := fields[name]
		if !ok {
			return nil
		}
		if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
			return entity.ClearTime()
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			errs = append(errs, entity.FieldError{Field: name, Message: "must be an RFC 3339 timestamp or null"})
			return nil
		}
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
		if err != nil {
			errs = append(errs, entity.FieldError{Field: name, Message: "must be an RFC 3339 timestamp or null"})
			return nil
		}
		return entity.SetTime(t)
	}

	patch.ArrivalTime = timeField("arrivalTime")
	patch.DepartureTime = timeField("departureTime")

	if raw, ok := fields["remarks"]; ok {
		remarks := ""
		if !bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
			if err := json.Unmarshal(raw, &remarks); err != nil {
				errs = append(errs, entity.FieldError{Field: "remarks", Message: "must be a string or null"})
			}
		}
		patch.Remarks = &remarks
	}

	if len(errs) > 0 {
		return entity.RecordPatch{}, &entity.ValidationError{Errors: errs}
	}
	return patch, nil
}

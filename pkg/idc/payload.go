package idc

import (
	"encoding/json"
	"fmt"
)

// Remote actions accepted by the producer endpoint.
const (
	ActionGetRecord       = "get_record"
	ActionGetAllRecords   = "get_all_records"
	ActionGetPhotoID      = "get_photo_id"
	ActionGetBadgePreview = "get_badge_preview"
	ActionUpdateRecord    = "update_record"
	ActionInsertRecord    = "insert_record"
)

// Actions lists every remote action.
var Actions = []string{
	ActionGetRecord,
	ActionGetAllRecords,
	ActionGetPhotoID,
	ActionGetBadgePreview,
	ActionUpdateRecord,
	ActionInsertRecord,
}

// Payload is the JSON document posted to the producer endpoint. A new
// Payload is built for every operation.
type Payload struct {
	UserSecretKey    string   `json:"user_secret_key"`
	ProjectSecretKey string   `json:"project_secret_key"`
	API              APIBlock `json:"api"`
	Data             Fields   `json:"data,omitempty"`
}

// APIBlock holds the operation parameters. The Action, OutputFormat,
// Authorization and Version fields are filled in by the client just before
// sending.
type APIBlock struct {
	PrimaryKey         PrimaryKey `json:"api_primary_key,omitempty"`
	PhotoID            int        `json:"api_photo_id,omitempty"`
	PhotoIDFormat      string     `json:"api_photo_id_format,omitempty"`
	BadgePreview       int        `json:"api_badge_preview,omitempty"`
	BadgePreviewFormat string     `json:"api_badge_preview_format,omitempty"`
	BadgePreviewSide   Side       `json:"api_badge_preview_number,omitempty"`

	Action        string `json:"api_action"`
	OutputFormat  string `json:"api_output_format"`
	Authorization string `json:"api_authorization"`
	Version       string `json:"idc_php_version"`
}

// newPayload starts a payload for action keyed by pk. A nil pk leaves the
// primary key out.
func newPayload(action string, pk PrimaryKey) *Payload {
	return &Payload{
		API: APIBlock{
			Action:     action,
			PrimaryKey: pk,
		},
	}
}

// withData sets the record data block.
func (p *Payload) withData(data Fields) *Payload {
	p.Data = data
	return p
}

// stamp injects credentials and the fields every request carries.
func (p *Payload) stamp(creds Credentials, outputFormat, authorization string) {
	p.UserSecretKey = creds.UserSecretKey
	p.ProjectSecretKey = creds.ProjectSecretKey
	p.API.OutputFormat = outputFormat
	p.API.Authorization = authorization
	p.API.Version = Version
}

func (p *Payload) encode() ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return b, nil
}

// flagFields returns the data block of the single-flag update operations.
func flagFields(field string, on bool) Fields {
	value := "0"
	if on {
		value = "1"
	}
	return Fields{field: value}
}

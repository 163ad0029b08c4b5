// Package idc is a client for the IDpack in the Cloud producer REST API.
//
// # Overview
//
// The producer API exposes a single endpoint (by default
// https://api.idpack.cloud/producer/) that accepts a JSON document naming an
// action and its parameters. The Client builds that document, validates the
// arguments, performs one HTTP POST and normalizes the outcome into an
// envelope, so callers never assemble the wire payload or interpret raw
// transport failures.
//
// # Usage
//
//	client, err := idc.New(idc.Credentials{
//	    Username:         "api-user",
//	    Password:         os.Getenv("IDC_PASSWORD"),
//	    UserSecretKey:    os.Getenv("IDC_USER_SECRET_KEY"),
//	    ProjectSecretKey: os.Getenv("IDC_PROJECT_SECRET_KEY"),
//	}, nil)
//	if err != nil {
//	    return err
//	}
//
//	resp := client.GetRecord(ctx, idc.PrimaryKey{"idc_id_number": "123"}, idc.GetRecordOptions{
//	    PhotoID:       true,
//	    PhotoIDFormat: idc.ImagePNG,
//	})
//	if !resp.OK() {
//	    log.Printf("get_record failed with code %d: %s", resp.Err.Code, resp)
//	}
//
// # Wire Format
//
// Every request body has the shape:
//
//	{
//	  "user_secret_key": "...",
//	  "project_secret_key": "...",
//	  "api": {
//	    "api_primary_key": {"idc_id_number": "123"},
//	    "api_action": "get_record",
//	    "api_output_format": "json",
//	    "api_authorization": "basic",
//	    "idc_php_version": "1.3.072"
//	  },
//	  "data": {"first_name": "Ada"}
//	}
//
// Delete, (in)active and (un)trash operations are sent as update_record with a
// single flag in data (idc_delete, idc_active, idc_trash).
//
// # Envelopes
//
// On HTTP 200 with a non-empty body the envelope is the remote body, byte for
// byte. Every other outcome produces an error envelope:
//
//	{"status":"error","message":"idc-go: ...","code":720,"api_action":"get_record",
//	 "api":{"api_authorization":"basic","idc_php_version":"1.3.072"}}
//
// Local codes: 600 empty payload, 610 output format not allowed for the
// action, 620 transport could not be initialized, 630 transport failure, 640
// empty body, 650 unexpected internal failure, 720 malformed primary key, 730
// invalid photo ID format, 740 invalid badge preview format, 750 empty record
// data. Remote failures carry the HTTP status (401, 500, ...).
//
// Validation failures never touch the network. Operations never panic and
// never return a Go error; the typed *Error is available on Response.Err.
//
// # Side-State
//
// After each call the Client exposes the peer IP, the HTTP (or local error)
// code, the payload that was sent and, after a successful insert_record, the
// new record's idc_id_number. Because of this a Client is not safe for
// concurrent use.
//
// # Security
//
// TLS certificates and host names are verified unless Config.TLSVerify is
// explicitly false. Secrets and payload bodies are never logged.
package idc

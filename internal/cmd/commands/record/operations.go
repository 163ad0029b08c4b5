package record

import (
	"context"

	"github.com/iancoleman/strcase"

	"github.com/idpack-cloud/idc-go/pkg/idc"
)

// input is what the flags of a command resolve to.
type input struct {
	pk          idc.PrimaryKey
	data        idc.Fields
	imageFormat string
	side        idc.Side
	options     idc.GetRecordOptions
}

// Operation describes one record subcommand.
type Operation struct {
	// Name is the subcommand name.
	Name string

	Synopsis    string
	Description string

	usesPK      bool
	usesData    bool
	usesImage   bool
	usesSide    bool
	usesOptions bool

	run func(ctx context.Context, client *idc.Client, in *input) *idc.Response
}

// Operations returns every record subcommand.
func Operations() []Operation {
	return []Operation{
		{
			Name:        strcase.ToKebab(idc.ActionGetRecord),
			Synopsis:    "Fetch a record",
			Description: "Fetches the record identified by -pk, optionally with its photo ID and a badge preview.",
			usesPK:      true,
			usesOptions: true,
			run: func(ctx context.Context, client *idc.Client, in *input) *idc.Response {
				return client.GetRecord(ctx, in.pk, in.options)
			},
		},
		{
			Name:        strcase.ToKebab(idc.ActionGetAllRecords),
			Synopsis:    "Fetch every record of the project",
			Description: "Fetches every record of the project.",
			run: func(ctx context.Context, client *idc.Client, _ *input) *idc.Response {
				return client.GetAllRecords(ctx)
			},
		},
		{
			Name:        strcase.ToKebab(idc.ActionGetPhotoID),
			Synopsis:    "Fetch the photo ID of a record",
			Description: "Fetches the photo ID of the record identified by -pk in -image-format (jpeg, png or webp).",
			usesPK:      true,
			usesImage:   true,
			run: func(ctx context.Context, client *idc.Client, in *input) *idc.Response {
				return client.GetPhotoID(ctx, in.pk, in.imageFormat)
			},
		},
		{
			Name:        strcase.ToKebab(idc.ActionGetBadgePreview),
			Synopsis:    "Render a badge preview of a record",
			Description: "Renders a badge preview of the record identified by -pk in -image-format (jpeg, png, webp or pdf).",
			usesPK:      true,
			usesImage:   true,
			usesSide:    true,
			run: func(ctx context.Context, client *idc.Client, in *input) *idc.Response {
				return client.GetBadgePreview(ctx, in.pk, in.imageFormat, in.side)
			},
		},
		{
			Name:        strcase.ToKebab(idc.ActionInsertRecord),
			Synopsis:    "Create a record",
			Description: "Creates a record from the -data fields and reports its idc_id_number.",
			usesData:    true,
			run: func(ctx context.Context, client *idc.Client, in *input) *idc.Response {
				return client.InsertRecord(ctx, in.data)
			},
		},
		{
			Name:        strcase.ToKebab(idc.ActionUpdateRecord),
			Synopsis:    "Update fields of a record",
			Description: "Replaces the -data fields of the record identified by -pk.",
			usesPK:      true,
			usesData:    true,
			run: func(ctx context.Context, client *idc.Client, in *input) *idc.Response {
				return client.UpdateRecord(ctx, in.pk, in.data)
			},
		},
		flagOperation("DeleteRecord", "Permanently delete a record and its photo ID", (*idc.Client).DeleteRecord),
		flagOperation("SetRecordActive", "Mark a record active", (*idc.Client).SetRecordActive),
		flagOperation("SetRecordNotActive", "Mark a record inactive", (*idc.Client).SetRecordNotActive),
		flagOperation("SetRecordTrash", "Move a record to the trash", (*idc.Client).SetRecordTrash),
		flagOperation("SetRecordNotTrash", "Restore a record from the trash", (*idc.Client).SetRecordNotTrash),
	}
}

// flagOperation builds a subcommand for a single-flag update.
func flagOperation(
	method, synopsis string,
	call func(*idc.Client, context.Context, idc.PrimaryKey) *idc.Response,
) Operation {
	return Operation{
		Name:        strcase.ToKebab(method),
		Synopsis:    synopsis,
		Description: synopsis + ". The record is identified by -pk.",
		usesPK:      true,
		run: func(ctx context.Context, client *idc.Client, in *input) *idc.Response {
			return call(client, ctx, in.pk)
		},
	}
}

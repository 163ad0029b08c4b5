package idc

import "context"

// GetRecordOptions selects the optional blocks returned with a record.
type GetRecordOptions struct {
	// PhotoID includes the photo ID when CoerceBool reports true.
	PhotoID Toggle

	// PhotoIDFormat is jpeg, png or webp. Required when PhotoID is set.
	PhotoIDFormat string

	// BadgePreview includes a badge preview when CoerceBool reports true.
	BadgePreview Toggle

	// BadgePreviewFormat is jpeg, png, webp or pdf. Required when
	// BadgePreview is set.
	BadgePreviewFormat string

	// BadgePreviewSide selects the face to render. Duplex is the default.
	BadgePreviewSide Side
}

// GetRecord fetches the record identified by pk.
func (c *Client) GetRecord(ctx context.Context, pk PrimaryKey, opts GetRecordOptions) *Response {
	if err := pk.Validate(); err != nil {
		return c.reject(ActionGetRecord, nil, err)
	}
	p := newPayload(ActionGetRecord, pk)

	if CoerceBool(opts.PhotoID) {
		format, err := validatePhotoIDFormat(opts.PhotoIDFormat)
		if err != nil {
			return c.reject(ActionGetRecord, nil, err)
		}
		p.API.PhotoID = 1
		p.API.PhotoIDFormat = format
	}

	if CoerceBool(opts.BadgePreview) {
		format, err := validateBadgePreviewFormat(opts.BadgePreviewFormat)
		if err != nil {
			return c.reject(ActionGetRecord, nil, err)
		}
		p.API.BadgePreview = 1
		p.API.BadgePreviewFormat = format
		if opts.BadgePreviewSide.sent() {
			p.API.BadgePreviewSide = opts.BadgePreviewSide
		}
	}

	return c.send(ctx, p)
}

// GetAllRecords fetches every record of the project.
func (c *Client) GetAllRecords(ctx context.Context) *Response {
	return c.send(ctx, newPayload(ActionGetAllRecords, nil))
}

// GetPhotoID fetches the photo ID of a record in format (jpeg, png or webp).
func (c *Client) GetPhotoID(ctx context.Context, pk PrimaryKey, format string) *Response {
	if err := pk.Validate(); err != nil {
		return c.reject(ActionGetPhotoID, nil, err)
	}
	normalized, err := validatePhotoIDFormat(format)
	if err != nil {
		return c.reject(ActionGetPhotoID, nil, err)
	}

	p := newPayload(ActionGetPhotoID, pk)
	p.API.PhotoIDFormat = normalized
	return c.send(ctx, p)
}

// GetBadgePreview renders a badge preview of a record in format (jpeg, png,
// webp or pdf).
func (c *Client) GetBadgePreview(ctx context.Context, pk PrimaryKey, format string, side Side) *Response {
	if err := pk.Validate(); err != nil {
		return c.reject(ActionGetBadgePreview, nil, err)
	}
	normalized, err := validateBadgePreviewFormat(format)
	if err != nil {
		return c.reject(ActionGetBadgePreview, nil, err)
	}

	p := newPayload(ActionGetBadgePreview, pk)
	p.API.BadgePreviewFormat = normalized
	if side.sent() {
		p.API.BadgePreviewSide = side
	}
	return c.send(ctx, p)
}

// UpdateRecord replaces the given fields of a record.
func (c *Client) UpdateRecord(ctx context.Context, pk PrimaryKey, data Fields) *Response {
	if err := pk.Validate(); err != nil {
		return c.reject(ActionUpdateRecord, nil, err)
	}
	if err := data.validate(); err != nil {
		return c.reject(ActionUpdateRecord, nil, err)
	}
	return c.send(ctx, newPayload(ActionUpdateRecord, pk).withData(data))
}

// InsertRecord creates a record. On success LastInsertID reports its
// idc_id_number.
func (c *Client) InsertRecord(ctx context.Context, data Fields) *Response {
	if err := data.validate(); err != nil {
		return c.reject(ActionInsertRecord, nil, err)
	}
	return c.send(ctx, newPayload(ActionInsertRecord, nil).withData(data))
}

// DeleteRecord permanently deletes a record and its photo ID.
func (c *Client) DeleteRecord(ctx context.Context, pk PrimaryKey) *Response {
	return c.setFlag(ctx, pk, "idc_delete", true)
}

// SetRecordActive marks a record active.
func (c *Client) SetRecordActive(ctx context.Context, pk PrimaryKey) *Response {
	return c.setFlag(ctx, pk, "idc_active", true)
}

// SetRecordNotActive marks a record inactive.
func (c *Client) SetRecordNotActive(ctx context.Context, pk PrimaryKey) *Response {
	return c.setFlag(ctx, pk, "idc_active", false)
}

// SetRecordTrash moves a record to the trash.
func (c *Client) SetRecordTrash(ctx context.Context, pk PrimaryKey) *Response {
	return c.setFlag(ctx, pk, "idc_trash", true)
}

// SetRecordNotTrash restores a record from the trash.
func (c *Client) SetRecordNotTrash(ctx context.Context, pk PrimaryKey) *Response {
	return c.setFlag(ctx, pk, "idc_trash", false)
}

// setFlag issues an update_record carrying a single flag field.
func (c *Client) setFlag(ctx context.Context, pk PrimaryKey, field string, on bool) *Response {
	if err := pk.Validate(); err != nil {
		return c.reject(ActionUpdateRecord, nil, err)
	}
	return c.send(ctx, newPayload(ActionUpdateRecord, pk).withData(flagFields(field, on)))
}

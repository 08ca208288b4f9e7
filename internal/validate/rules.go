package validate

import "github.com/localnerve/lookout/internal/models"

func optionalText(name, column string) Field {
	return Field{Name: name, Column: column, Kind: String, Nullable: true, InvalidCode: "INVALID_FIELD_TYPE"}
}

// Reports is the rule table for missing-person reports.
// reportedBy is resolved from the session by the caller.
var Reports = Schema{
	NoFieldsCode: "NO_FIELDS_PROVIDED",
	Fields: []Field{
		{Name: "fullName", Column: "full_name", Kind: String, Required: true,
			MissingCode: "MISSING_FULL_NAME", InvalidCode: "INVALID_FULL_NAME", Label: "Full name"},
		{Name: "lastSeenLocation", Column: "last_seen_location", Kind: String, Required: true,
			MissingCode: "MISSING_LAST_SEEN_LOCATION", InvalidCode: "INVALID_LAST_SEEN_LOCATION", Label: "Last seen location"},
		{Name: "lastSeenDate", Column: "last_seen_date", Kind: String, Required: true,
			MissingCode: "MISSING_LAST_SEEN_DATE", InvalidCode: "INVALID_LAST_SEEN_DATE", Label: "Last seen date"},
		{Name: "contactInfo", Column: "contact_info", Kind: String, Required: true,
			MissingCode: "MISSING_CONTACT_INFO", InvalidCode: "INVALID_CONTACT_INFO", Label: "Contact information"},
		{Name: "status", Column: "status", Kind: String, Enum: models.ReportStatuses, Default: models.ReportActive,
			InvalidCode: "INVALID_STATUS", Label: "Status"},
		{Name: "age", Column: "age", Kind: Int, Nullable: true, InvalidCode: "INVALID_AGE", Label: "Age"},
		optionalText("gender", "gender"),
		optionalText("height", "height"),
		optionalText("weight", "weight"),
		optionalText("hairColor", "hair_color"),
		optionalText("eyeColor", "eye_color"),
		optionalText("complexion", "complexion"),
		optionalText("distinguishingMarks", "distinguishing_marks"),
		optionalText("description", "description"),
		optionalText("imageUrl", "image_url"),
	},
}

// Sightings is the rule table for sightings.
var Sightings = Schema{
	ProtectedCode: "INVALID_UPDATE_FIELDS",
	NoFieldsCode:  "NO_VALID_FIELDS",
	Fields: []Field{
		{Name: "id", Managed: true},
		{Name: "reportId", Aliases: []string{"report_id"}, Kind: Int, Required: true, Positive: true, Immutable: true,
			MissingCode: "MISSING_REPORT_ID", InvalidCode: "INVALID_REPORT_ID", Label: "reportId"},
		{Name: "reportedByUserId", Aliases: []string{"reported_by_user_id"}, Kind: Int, Nullable: true, Positive: true, Immutable: true,
			InvalidCode: "INVALID_REPORTED_BY_USER_ID", Label: "reportedByUserId"},
		{Name: "sightingLocation", Aliases: []string{"sighting_location"}, Kind: String, Required: true, Immutable: true,
			MissingCode: "MISSING_SIGHTING_LOCATION", InvalidCode: "INVALID_SIGHTING_LOCATION", Label: "sightingLocation"},
		{Name: "sightingDate", Aliases: []string{"sighting_date"}, Kind: String, Required: true, Immutable: true,
			MissingCode: "MISSING_SIGHTING_DATE", InvalidCode: "INVALID_SIGHTING_DATE", Label: "sightingDate"},
		{Name: "createdAt", Aliases: []string{"created_at"}, Managed: true},
		{Name: "verified", Column: "verified", Kind: Bool, UpdateOnly: true,
			InvalidCode: "INVALID_VERIFIED_TYPE", Label: "Verified field"},
		optionalText("description", "description"),
		optionalText("contactInfo", "contact_info"),
		optionalText("imageUrl", "image_url"),
	},
}

// Footage is the rule table for CCTV footage.
var Footage = Schema{
	ProtectedCode: "INVALID_UPDATE_FIELDS",
	NoFieldsCode:  "NO_UPDATE_FIELDS",
	Fields: []Field{
		{Name: "id", Managed: true},
		{Name: "submittedByUserId", Aliases: []string{"submitted_by_user_id"}, Kind: Int, Nullable: true, Positive: true, Immutable: true,
			InvalidCode: "INVALID_USER_ID", Label: "Submitted by user ID"},
		{Name: "location", Kind: String, Required: true, Immutable: true,
			MissingCode: "MISSING_LOCATION", InvalidCode: "INVALID_LOCATION", Label: "Location"},
		{Name: "footageDate", Aliases: []string{"footage_date"}, Kind: String, Required: true, Immutable: true,
			MissingCode: "MISSING_FOOTAGE_DATE", InvalidCode: "INVALID_FOOTAGE_DATE", Label: "Footage date"},
		{Name: "footageTime", Aliases: []string{"footage_time"}, Kind: String, Nullable: true, Immutable: true,
			InvalidCode: "INVALID_FOOTAGE_TIME", Label: "Footage time"},
		{Name: "contactInfo", Aliases: []string{"contact_info"}, Kind: String, Nullable: true, Immutable: true,
			InvalidCode: "INVALID_CONTACT_INFO", Label: "Contact information"},
		{Name: "createdAt", Aliases: []string{"created_at"}, Managed: true},
		{Name: "status", Column: "status", Kind: String, Enum: models.FootageStatuses, Default: models.FootagePending,
			InvalidCode: "INVALID_STATUS", Label: "Status"},
		{Name: "reportId", Column: "report_id", Kind: Int, Nullable: true, Positive: true,
			InvalidCode: "INVALID_REPORT_ID", Label: "reportId"},
		optionalText("description", "description"),
		optionalText("videoUrl", "video_url"),
	},
}

// NotificationRead is the rule table for marking a notification.
var NotificationRead = Schema{
	NoFieldsCode: "NO_FIELDS_PROVIDED",
	Fields: []Field{
		{Name: "read", Column: "read", Kind: Bool, InvalidCode: "INVALID_READ_VALUE", Label: "Read field"},
	},
}

// Notifications is the rule table for notifications created by administrators.
var Notifications = Schema{
	Fields: []Field{
		{Name: "userId", Kind: Int, Required: true, Positive: true,
			MissingCode: "MISSING_USER_ID", InvalidCode: "INVALID_USER_ID", Label: "User ID"},
		{Name: "message", Kind: String, Required: true,
			MissingCode: "MISSING_MESSAGE", InvalidCode: "INVALID_MESSAGE", Label: "Message"},
		{Name: "reportId", Kind: Int, Nullable: true, Positive: true,
			InvalidCode: "INVALID_REPORT_ID", Label: "Report ID"},
		{Name: "type", Kind: String, Default: models.DefaultNotificationType,
			InvalidCode: "INVALID_TYPE", Label: "Type"},
	},
}

// Roles is the rule table for changing a user's role.
var Roles = Schema{
	NoFieldsCode: "MISSING_ROLE",
	Fields: []Field{
		{Name: "role", Column: "role", Kind: String, Required: true, Enum: []string{models.RoleUser, models.RoleAdmin},
			MissingCode: "MISSING_ROLE", InvalidCode: "INVALID_ROLE", Label: "Role"},
	},
}

// ReportOwner validates the optional reporter id of a new report
var ReportOwner = Schema{
	Fields: []Field{
		{Name: "reportedBy", Kind: Int, Positive: true,
			InvalidCode: "INVALID_REPORTED_BY", Label: "Reported by"},
	},
}

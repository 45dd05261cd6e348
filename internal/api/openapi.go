package api

import (
	"maps"

	"github.com/JaimeStill/sweep/internal/config"
	"github.com/JaimeStill/sweep/pkg/openapi"
)

func ptr[T any](v T) *T { return &v }

var reportSchemas = map[string]*openapi.Schema{
	"Report": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":                 {Type: "string", Format: "uuid", ReadOnly: true},
			"latitude":           {Type: "number"},
			"longitude":          {Type: "number"},
			"town":               {Type: "string"},
			"county":             {Type: "string"},
			"country":            {Type: "string"},
			"priority":           {Type: "string", Enum: []any{"low", "medium", "high"}},
			"email":              {Type: "string", Format: "email"},
			"reportedAt":         {Type: "string", Format: "date-time"},
			"imageUrl":           openapi.Nullable(&openapi.Schema{Type: "string", Format: "uri", Description: "Public URL of the evidence photo"}),
			"recognizedCategory": {Type: "string"},
			"isClean":            {Type: "boolean"},
		},
		Required: []string{"id", "latitude", "longitude", "priority", "email", "reportedAt", "isClean"},
	},
	"CreateReport": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"latitude":  {Type: "number", Minimum: ptr(-90.0), Maximum: ptr(90.0), Description: "Number or numeric string"},
			"longitude": {Type: "number", Minimum: ptr(-180.0), Maximum: ptr(180.0), Description: "Number or numeric string"},
			"town":      {Type: "string", MaxLength: ptr(200), Description: "Omit or send Unknown to geocode"},
			"county":    {Type: "string", MaxLength: ptr(200)},
			"country":   {Type: "string", MaxLength: ptr(200)},
			"priority":  {Type: "string", Enum: []any{"low", "medium", "high"}},
			"email":     {Type: "string", Format: "email", Description: "Replaced by the bearer token email when authenticated"},
		},
		Required: []string{"latitude", "longitude", "priority", "email"},
	},
	"MarkClean": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"reportId": {Type: "string", Format: "uuid"},
		},
		Required: []string{"reportId"},
	},
	"EvidenceUpload": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"reportId": {Type: "string", Format: "uuid"},
			"image":    {Type: "string", Format: "binary"},
		},
		Required: []string{"reportId", "image"},
	},
	"ReportPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":       openapi.ArrayOf("Report"),
			"total":      {Type: "integer"},
			"page":       {Type: "integer"},
			"pageSize":   {Type: "integer"},
			"totalPages": {Type: "integer"},
		},
	},
	"LeaderboardEntry": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"email":          {Type: "string"},
			"totalReports":   {Type: "integer"},
			"highPriority":   {Type: "integer"},
			"mediumPriority": {Type: "integer"},
			"lowPriority":    {Type: "integer"},
			"cleaned":        {Type: "integer"},
		},
	},
	"Style": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"tone":  {Type: "string", Enum: []any{"high", "medium", "low", "clean", "unknown"}},
			"color": {Type: "string"},
			"label": {Type: "string"},
		},
	},
	"Card": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"report": openapi.SchemaRef("Report"),
			"style":  openapi.SchemaRef("Style"),
		},
	},
	"View": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"items":      openapi.ArrayOf("Card"),
			"total":      {Type: "integer"},
			"page":       {Type: "integer", Description: "0-based"},
			"pageSize":   {Type: "integer"},
			"totalPages": {Type: "integer"},
		},
	},
}

var (
	reportID = openapi.PathParam("id", "Report ID")

	reportNotFound = map[int]*openapi.Response{
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
		500: openapi.ResponseRef("InternalError"),
	}
)

func withResponses(base map[int]*openapi.Response, extra map[int]*openapi.Response) map[int]*openapi.Response {
	out := maps.Clone(base)
	maps.Copy(out, extra)
	return out
}

func reportOK(status int, description string) map[int]*openapi.Response {
	return withResponses(reportNotFound, map[int]*openapi.Response{
		status: openapi.ResponseJSON(description, "Report"),
	})
}

func newSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(reportSchemas)
	spec.AddTag("Reports", "Litter reports and evidence photos")
	spec.AddTag("Views", "Paged, styled report projections for the dashboard and worklist")

	tags := []string{"Reports"}

	spec.AddOperation("POST", "/report", &openapi.Operation{
		Summary:     "Create report",
		Description: "Missing location fields are filled by reverse geocoding when available.",
		Tags:        tags,
		RequestBody: openapi.RequestBodyJSON("CreateReport", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created report", "Report"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			500: openapi.ResponseRef("InternalError"),
		},
	})

	spec.AddOperation("POST", "/report/upload", &openapi.Operation{
		Summary:     "Attach evidence photo",
		Description: "Replaces any existing photo and records the recognized litter category.",
		Tags:        tags,
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {Schema: openapi.SchemaRef("EvidenceUpload")},
			},
		},
		Responses: withResponses(reportOK(200, "Updated report"), map[int]*openapi.Response{
			413: openapi.ResponseRef("PayloadTooLarge"),
		}),
	})

	spec.AddOperation("PATCH", "/report/clean", &openapi.Operation{
		Summary:     "Mark report clean",
		Description: "Idempotent. Releases the evidence photo.",
		Tags:        tags,
		RequestBody: openapi.RequestBodyJSON("MarkClean", true),
		Responses:   reportOK(200, "Cleaned report"),
	})

	spec.AddOperation("GET", "/report/{id}", &openapi.Operation{
		Summary:    "Find report",
		Tags:       tags,
		Parameters: []*openapi.Parameter{reportID},
		Responses:  reportOK(200, "Report"),
	})

	spec.AddOperation("DELETE", "/report/{id}", &openapi.Operation{
		Summary:    "Delete report",
		Tags:       tags,
		Parameters: []*openapi.Parameter{reportID},
		Responses:  reportOK(200, "Deleted report"),
	})

	spec.AddOperation("DELETE", "/report/image/{id}", &openapi.Operation{
		Summary:    "Remove evidence photo",
		Tags:       tags,
		Parameters: []*openapi.Parameter{reportID},
		Responses:  reportOK(200, "Updated report"),
	})

	spec.AddOperation("GET", "/reports", &openapi.Operation{
		Summary: "List reports",
		Tags:    tags,
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "1-based page number", false),
			openapi.QueryParam("pageSize", "integer", "Results per page", false),
			openapi.QueryParam("email", "string", "Reporter email", false),
			openapi.QueryParam("includeClean", "boolean", "Include cleaned reports (default true)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Reports newest first", "ReportPage"),
			400: openapi.ResponseRef("BadRequest"),
			500: openapi.ResponseRef("InternalError"),
		},
	})

	spec.AddOperation("GET", "/leaderboard", &openapi.Operation{
		Summary: "Reporter leaderboard",
		Tags:    tags,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseSchema("Entries by total descending", openapi.ArrayOf("LeaderboardEntry")),
			500: openapi.ResponseRef("InternalError"),
		},
	})

	spec.AddOperation("GET", "/evidence/{key}", &openapi.Operation{
		Summary: "Download evidence photo",
		Tags:    tags,
		Parameters: []*openapi.Parameter{
			openapi.StringPathParam("key", "Evidence key below evidence/"),
		},
		Responses: map[int]*openapi.Response{
			200: {Description: "Image bytes"},
			404: openapi.ResponseRef("NotFound"),
			500: openapi.ResponseRef("InternalError"),
		},
	})

	viewParams := func(filters []any) []*openapi.Parameter {
		filter := openapi.QueryParam("filter", "string", "Report filter", false)
		filter.Schema.Enum = filters
		return []*openapi.Parameter{
			filter,
			openapi.QueryParam("page", "integer", "0-based page number", false),
		}
	}

	spec.AddOperation("GET", "/views/dashboard", &openapi.Operation{
		Summary:     "Reporter dashboard",
		Description: "The caller's reports; email comes from the bearer token or the email query parameter.",
		Tags:        []string{"Views"},
		Parameters: append(
			viewParams([]any{"all", "clean", "high", "medium", "low"}),
			openapi.QueryParam("email", "string", "Reporter email when unauthenticated", false),
		),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of cards", "View"),
			400: openapi.ResponseRef("BadRequest"),
			500: openapi.ResponseRef("InternalError"),
		},
	})

	spec.AddOperation("GET", "/views/worklist", &openapi.Operation{
		Summary:     "Cleanup worklist",
		Description: "All reports, open first, then by priority and recency.",
		Tags:        []string{"Views"},
		Parameters:  viewParams([]any{"all_pending", "clean", "high", "medium", "low"}),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of cards", "View"),
			400: openapi.ResponseRef("BadRequest"),
			500: openapi.ResponseRef("InternalError"),
		},
	})

	return spec
}

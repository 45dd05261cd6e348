package openapi

import "maps"

var errorSchema = &Schema{
	Type: "object",
	Properties: map[string]*Schema{
		"error": {Type: "string", Description: "Error message"},
	},
	Required: []string{"error"},
}

func errorResponse(description string) *Response {
	return ResponseSchema(description, SchemaRef("Error"))
}

// NewComponents creates Components with the shared error schema and the
// error responses every endpoint may return.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": errorSchema,
		},
		Responses: map[string]*Response{
			"BadRequest":      errorResponse("Invalid request"),
			"Unauthorized":    errorResponse("Invalid bearer token"),
			"NotFound":        errorResponse("Resource not found"),
			"PayloadTooLarge": errorResponse("Upload exceeds the size limit"),
			"InternalError":   errorResponse("Unexpected server failure; detail is logged, not returned"),
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}

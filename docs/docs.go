// Package docs registers the OpenAPI document served under /swagger. It is kept in swag's output
// layout and must follow the godoc annotations on internal/scan/handler; docs_test checks the
// response definitions against the handler types.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/cron/scan": {
            "get": {
                "description": "Fetches candidates from all sources, ranks them, stores signals and notifies subscribers",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Scan"
                ],
                "summary": "Run a top-gainers scan",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Bearer <cron secret>",
                        "name": "Authorization",
                        "in": "header"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "without gainers the body is {success, message} instead",
                        "schema": {
                            "$ref": "#/definitions/handler.ScanResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "handler.ScanResponse": {
            "type": "object",
            "properties": {
                "notified": {
                    "type": "integer",
                    "example": 12
                },
                "processed": {
                    "type": "integer",
                    "example": 4
                },
                "success": {
                    "type": "boolean",
                    "example": true
                },
                "top": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/scan.TopEntry"
                    }
                }
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string",
                    "example": "scan aborted after processing: context deadline exceeded"
                },
                "success": {
                    "type": "boolean",
                    "example": false
                }
            }
        },
        "scan.TopEntry": {
            "type": "object",
            "properties": {
                "change": {
                    "type": "number"
                },
                "name": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Liquitrace API",
	Description:      "Top-gainer scanner for Base chain tokens.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

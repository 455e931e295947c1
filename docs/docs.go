// Package docs registers the Swagger specification served at /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{escape .Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/files": {
            "get": {
                "produces": ["application/json"],
                "summary": "List uploaded files, newest first",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handler.listResponse"}
                    },
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/api/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "summary": "Upload a single file",
                "parameters": [
                    {
                        "type": "file",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/model.File"}
                    },
                    "400": {"description": "Bad Request"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/api/upload/{id}": {
            "delete": {
                "produces": ["application/json"],
                "summary": "Delete an uploaded file by identifier",
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/uploads/{filename}": {
            "get": {
                "summary": "Fetch stored file bytes",
                "parameters": [
                    {
                        "type": "string",
                        "name": "filename",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "handler.listResponse": {
            "type": "object",
            "properties": {
                "files": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/model.File"}
                }
            }
        },
        "model.File": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "filename": {"type": "string"},
                "originalName": {"type": "string"},
                "size": {"type": "integer"},
                "type": {"type": "string"},
                "uploadedAt": {"type": "string"},
                "url": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "famdrop API",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs registers the OpenAPI description of the development backend
// with swag, served by echo-swagger at /swagger/index.html.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/devbackend.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/devbackend.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/devbackend.messageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/devbackend.messageResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/devbackend.messageResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "User registration details",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/devbackend.registerRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/devbackend.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/devbackend.messageResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/devbackend.messageResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/devbackend.messageResponse"}}
                }
            }
        },
        "/my/payments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "List my payments",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/domain.Payment"}}}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/devbackend.messageResponse"}}
                }
            }
        },
        "/payments/upload": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Upload payments CSV",
                "parameters": [
                    {"type": "file", "description": "CSV file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/devbackend.uploadResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/devbackend.messageResponse"}}
                }
            }
        },
        "/admin/batches": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["batches"],
                "summary": "List batches",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/domain.Batch"}}}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/devbackend.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/devbackend.messageResponse"}}
                }
            }
        },
        "/admin/batches/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["batches"],
                "summary": "Get batch",
                "parameters": [
                    {"type": "integer", "description": "Batch ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.BatchDetail"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/devbackend.messageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "devbackend.authResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "devbackend.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "devbackend.messageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "devbackend.registerRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string", "maxLength": 255},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "devbackend.uploadResponse": {
            "type": "object",
            "properties": {
                "batch": {"$ref": "#/definitions/domain.Batch"},
                "message": {"type": "string"}
            }
        },
        "domain.Batch": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "integer"},
                "original_filename": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "domain.BatchDetail": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "integer"},
                "logs": {"type": "array", "items": {"$ref": "#/definitions/domain.BatchLog"}},
                "original_filename": {"type": "string"},
                "payments": {"type": "array", "items": {"$ref": "#/definitions/domain.Payment"}},
                "status": {"type": "string"}
            }
        },
        "domain.BatchLog": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "integer"},
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "domain.Payment": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "amount_usd": {"type": "number"},
                "currency": {"type": "string"},
                "customer_email": {"type": "string"},
                "id": {"type": "integer"},
                "payment_date": {"type": "string"},
                "processed": {"type": "boolean"},
                "reference": {"type": "string"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"]}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Payments Development Backend",
	Description:      "Local stand-in for the payments backend consumed by the portal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

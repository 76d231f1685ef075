// Package docs registers the OpenAPI document served under /swagger/.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["platform"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/polls": {
            "get": {
                "produces": ["application/json"],
                "tags": ["polling"],
                "summary": "List latest published questions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.IndexResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/polls/{question_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["polling"],
                "summary": "Get a votable question with its choices",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "description": "Question id", "name": "question_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.DetailResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/polls/{question_id}/results": {
            "get": {
                "produces": ["application/json"],
                "tags": ["polling"],
                "summary": "Get per-choice vote counts",
                "parameters": [
                    {"type": "string", "description": "Question id", "name": "question_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ResultsResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/polls/{question_id}/vote": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["polling"],
                "summary": "Cast or switch the caller's vote",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "description": "Question id", "name": "question_id", "in": "path", "required": true},
                    {"description": "Selected choice", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.CastVoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VoteResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.VoteResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "http.QuestionResponse": {
            "type": "object",
            "properties": {
                "question_id": {"type": "string"},
                "question_text": {"type": "string"},
                "publish_at": {"type": "string", "format": "date-time"},
                "close_at": {"type": "string", "format": "date-time"}
            }
        },
        "http.IndexItem": {
            "type": "object",
            "properties": {
                "question_id": {"type": "string"},
                "question_text": {"type": "string"},
                "publish_at": {"type": "string", "format": "date-time"},
                "close_at": {"type": "string", "format": "date-time"},
                "was_published_recently": {"type": "boolean"}
            }
        },
        "http.IndexResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/http.IndexItem"}}
            }
        },
        "http.ChoiceResponse": {
            "type": "object",
            "properties": {
                "choice_id": {"type": "string"},
                "choice_text": {"type": "string"}
            }
        },
        "http.DetailResponse": {
            "type": "object",
            "properties": {
                "question": {"$ref": "#/definitions/http.QuestionResponse"},
                "choices": {"type": "array", "items": {"$ref": "#/definitions/http.ChoiceResponse"}},
                "selected_choice_id": {"type": "string"}
            }
        },
        "http.ChoiceResult": {
            "type": "object",
            "properties": {
                "choice_id": {"type": "string"},
                "choice_text": {"type": "string"},
                "votes": {"type": "integer"}
            }
        },
        "http.ResultsResponse": {
            "type": "object",
            "properties": {
                "question": {"$ref": "#/definitions/http.QuestionResponse"},
                "choices": {"type": "array", "items": {"$ref": "#/definitions/http.ChoiceResult"}},
                "total_votes": {"type": "integer"}
            }
        },
        "http.CastVoteRequest": {
            "type": "object",
            "properties": {
                "choice_id": {"type": "string"}
            }
        },
        "http.VoteResponse": {
            "type": "object",
            "properties": {
                "vote_id": {"type": "string"},
                "question_id": {"type": "string"},
                "choice_id": {"type": "string"},
                "user_id": {"type": "string"},
                "created": {"type": "boolean"},
                "changed": {"type": "boolean"},
                "updated_at": {"type": "string", "format": "date-time"}
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

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "pollhub API",
	Description:      "Published polls, voting and results.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

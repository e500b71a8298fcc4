// Package docs registers the generated OpenAPI document with the swagger
// runtime so /swagger/doc.json serves it.
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
        "/v1/governance/motions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["governance"],
                "summary": "List motions",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["governance"],
                "summary": "Create a motion",
                "parameters": [
                    {"type": "string", "name": "X-Actor-ID", "in": "header", "required": true},
                    {"type": "string", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/v1/governance/motions/{motion_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["governance"],
                "summary": "Get a motion",
                "parameters": [
                    {"type": "integer", "name": "motion_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/v1/governance/motions/{motion_id}/actions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["governance"],
                "summary": "List motion actions",
                "parameters": [
                    {"type": "integer", "name": "motion_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["governance"],
                "summary": "Attach an action to a draft motion",
                "parameters": [
                    {"type": "string", "name": "X-Actor-ID", "in": "header", "required": true},
                    {"type": "integer", "name": "motion_id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/governance/motions/{motion_id}/activate": {
            "post": {
                "produces": ["application/json"],
                "tags": ["governance"],
                "summary": "Activate a draft motion",
                "parameters": [
                    {"type": "string", "name": "X-Actor-ID", "in": "header", "required": true},
                    {"type": "integer", "name": "motion_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/governance/motions/{motion_id}/ballots": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["governance"],
                "summary": "Cast or recast a ballot",
                "parameters": [
                    {"type": "string", "name": "X-Actor-ID", "in": "header", "required": true},
                    {"type": "integer", "name": "motion_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/governance/motions/{motion_id}/ballots/{voter}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["governance"],
                "summary": "Get one voter's ballot",
                "parameters": [
                    {"type": "integer", "name": "motion_id", "in": "path", "required": true},
                    {"type": "string", "name": "voter", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/v1/governance/motions/{motion_id}/tally": {
            "get": {
                "produces": ["application/json"],
                "tags": ["governance"],
                "summary": "Current tally and threshold evaluation",
                "parameters": [
                    {"type": "integer", "name": "motion_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/governance/motions/{motion_id}/finalize": {
            "post": {
                "produces": ["application/json"],
                "tags": ["governance"],
                "summary": "Finalize a motion past its voting deadline",
                "parameters": [
                    {"type": "integer", "name": "motion_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/governance/motions/{motion_id}/execute": {
            "post": {
                "produces": ["application/json"],
                "tags": ["governance"],
                "summary": "Execute a passed motion's actions",
                "parameters": [
                    {"type": "integer", "name": "motion_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/v1/governance/settings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "List protocol parameters",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/governance/settings/{key}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Get one protocol parameter",
                "parameters": [
                    {"type": "string", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Update a parameter (governance execution only)",
                "parameters": [
                    {"type": "string", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Agora Governance API",
	Description:      "Ledger-resident governance: motions, ballots, thresholds and the protocol parameter registry.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

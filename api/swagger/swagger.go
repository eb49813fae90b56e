package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Enrollment Wizard Gateway",
        "description": "Drives the student enrollment wizard and enrollment transfers against the student registry.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {
            "name": "Wizard",
            "description": "Enrollment wizard sessions"
        },
        {
            "name": "Catalog",
            "description": "Dropdown option lists"
        },
        {
            "name": "Transfers",
            "description": "Batch transfers of existing enrollments"
        },
        {
            "name": "Authentication",
            "description": "Registry session status"
        },
        {
            "name": "Observability",
            "description": "Gateway metrics"
        }
    ],
    "paths": {
        "/auth/session": {
            "get": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Check registry session",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/catalog/pathways": {
            "get": {
                "tags": [
                    "Catalog"
                ],
                "summary": "List pathways",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/catalog/courses": {
            "get": {
                "tags": [
                    "Catalog"
                ],
                "summary": "List courses of a pathway",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "pathway",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/catalog/courses/{courseId}/batches": {
            "get": {
                "tags": [
                    "Catalog"
                ],
                "summary": "List intakes of a course",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "courseId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/catalog/classrooms": {
            "get": {
                "tags": [
                    "Catalog"
                ],
                "summary": "List classrooms of an intake",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "412": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "courseId",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "batchId",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "excludeId",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ]
            }
        },
        "/catalog/required-documents": {
            "get": {
                "tags": [
                    "Catalog"
                ],
                "summary": "List documents a student can hand in",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/wizard/sessions": {
            "post": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Start a new student enrollment",
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/wizard/students/{studentId}/sessions": {
            "post": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Start editing an existing student",
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "studentId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/wizard/sessions/{id}": {
            "get": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Get wizard session",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Discard wizard session",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        },
        "/wizard/sessions/{id}/reload": {
            "post": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Reload the edited student from the registry",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/wizard/sessions/{id}/form": {
            "patch": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Update form sections",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/FormPatch"
                        }
                    }
                ]
            }
        },
        "/wizard/sessions/{id}/enrollments": {
            "post": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Add an enrollment row",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/wizard/sessions/{id}/enrollments/{index}": {
            "delete": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Remove an enrollment row",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "412": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "index",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ]
            }
        },
        "/wizard/sessions/{id}/enrollments/{index}/selection": {
            "put": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Select pathway, course, intake or classroom for a row",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "412": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "index",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SelectionRequest"
                        }
                    }
                ]
            }
        },
        "/wizard/sessions/{id}/next": {
            "post": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Validate the active step and advance",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/wizard/sessions/{id}/back": {
            "post": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Return to the previous step",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/wizard/sessions/{id}/skip": {
            "post": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Skip an optional step",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "412": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/wizard/sessions/{id}/submit": {
            "post": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Submit the wizard to the registry",
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/wizard/sessions/{id}/payment/{courseId}/schedule": {
            "get": {
                "tags": [
                    "Wizard"
                ],
                "summary": "Installment schedule of one course",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "courseId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/transfers/intakes": {
            "get": {
                "tags": [
                    "Transfers"
                ],
                "summary": "List intakes an enrollment can move to",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "courseId",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "currentBatchId",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ]
            }
        },
        "/transfers/classrooms": {
            "get": {
                "tags": [
                    "Transfers"
                ],
                "summary": "List classrooms of the target intake",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "412": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "courseId",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "batchId",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "currentClassroomId",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ]
            }
        },
        "/enrollments/{id}/eligible-classrooms": {
            "get": {
                "tags": [
                    "Transfers"
                ],
                "summary": "List classrooms the registry allows for a transfer",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "currentClassroomId",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ]
            }
        },
        "/enrollments/{id}/transfers": {
            "post": {
                "tags": [
                    "Transfers"
                ],
                "summary": "Move an enrollment to another intake",
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/EnrollmentTransferRequest"
                        }
                    }
                ]
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Gateway metrics summary",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                },
                "fields": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "field": {
                                "type": "string"
                            },
                            "message": {
                                "type": "string"
                            }
                        }
                    }
                },
                "details": {
                    "type": "object"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                }
            }
        },
        "SelectionRequest": {
            "type": "object",
            "required": [
                "level"
            ],
            "properties": {
                "level": {
                    "type": "string",
                    "enum": [
                        "pathway",
                        "course",
                        "intake",
                        "classroom"
                    ]
                },
                "value": {
                    "type": "string"
                }
            }
        },
        "FormPatch": {
            "type": "object",
            "properties": {
                "personal": {
                    "type": "object"
                },
                "paymentSchema": {
                    "type": "object"
                },
                "academic": {
                    "type": "object"
                },
                "requiredDocuments": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "emergencyContact": {
                    "type": "object"
                }
            }
        },
        "EnrollmentTransferRequest": {
            "type": "object",
            "required": [
                "courseId",
                "currentBatchId",
                "batchId",
                "classroomId",
                "reason"
            ],
            "properties": {
                "courseId": {
                    "type": "string"
                },
                "currentBatchId": {
                    "type": "string"
                },
                "currentClassroomId": {
                    "type": "string"
                },
                "batchId": {
                    "type": "string"
                },
                "classroomId": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

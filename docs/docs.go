// Package docs provides Swagger documentation for the education loan API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "Education loan underwriting API.\n\n1. **Applications** - Draft and submit a loan application\n2. **Underwriting** - Risk assessment with auto-approve, manual review or decline\n3. **Offers** - Loan, income-share or hybrid offers valid for 14 days\n4. **Sponsors** - Match applications to funding sponsors\n5. **Credit readiness** - Public pre-application check",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/MrKriegler/go-eduloan"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": ["http", "https"],
    "consumes": ["application/json"],
    "produces": ["application/json"],
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "in": "header", "name": "X-API-Key"}
    },
    "security": [{"ApiKeyAuth": []}],
    "paths": {
        "/applications": {
            "post": {
                "tags": ["Applications"],
                "summary": "Create a draft application",
                "operationId": "createApplication",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ApplicationInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/LoanApplication"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/applications/{application_id}": {
            "get": {
                "tags": ["Applications"],
                "summary": "Get an application",
                "operationId": "getApplication",
                "parameters": [{"$ref": "#/parameters/ApplicationID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoanApplication"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Problem"}}
                }
            },
            "patch": {
                "tags": ["Applications"],
                "summary": "Replace sections of a draft application",
                "operationId": "patchApplication",
                "parameters": [
                    {"$ref": "#/parameters/ApplicationID"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ApplicationInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoanApplication"}},
                    "409": {"description": "Not a draft", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/applications/{application_id}:submit": {
            "post": {
                "tags": ["Applications"],
                "summary": "Submit a draft for underwriting",
                "operationId": "submitApplication",
                "parameters": [{"$ref": "#/parameters/ApplicationID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoanApplication"}},
                    "400": {"description": "Incomplete application", "schema": {"$ref": "#/definitions/Problem"}},
                    "409": {"description": "Not a draft", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/applications/{application_id}:underwrite": {
            "post": {
                "tags": ["Underwriting"],
                "summary": "Assess a submitted application",
                "description": "Scores the application, records the assessment and generates an offer unless it is declined.",
                "operationId": "underwriteApplication",
                "parameters": [{"$ref": "#/parameters/ApplicationID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UnderwritingResult"}},
                    "409": {"description": "Not submitted", "schema": {"$ref": "#/definitions/Problem"}},
                    "500": {"description": "No active underwriting rules", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/applications/{application_id}:review": {
            "post": {
                "tags": ["Underwriting"],
                "summary": "Settle a manual-review application",
                "operationId": "reviewApplication",
                "parameters": [
                    {"$ref": "#/parameters/ApplicationID"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoanApplication"}},
                    "409": {"description": "Not under manual review", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/applications/{application_id}/assessment": {
            "get": {
                "tags": ["Underwriting"],
                "summary": "Latest assessment of an application",
                "operationId": "getLatestAssessment",
                "parameters": [{"$ref": "#/parameters/ApplicationID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RiskAssessment"}},
                    "404": {"description": "Never assessed", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/assessments/{assessment_id}": {
            "get": {
                "tags": ["Underwriting"],
                "summary": "Get an assessment",
                "operationId": "getAssessment",
                "parameters": [{"in": "path", "name": "assessment_id", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RiskAssessment"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/applications/{application_id}/offer": {
            "get": {
                "tags": ["Offers"],
                "summary": "Latest offer for an application",
                "operationId": "getApplicationOffer",
                "parameters": [{"$ref": "#/parameters/ApplicationID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoanOffer"}},
                    "404": {"description": "No offer", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/offers/{offer_id}": {
            "get": {
                "tags": ["Offers"],
                "summary": "Get an offer",
                "operationId": "getOffer",
                "parameters": [{"$ref": "#/parameters/OfferID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoanOffer"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/offers/{offer_id}:accept": {
            "post": {
                "tags": ["Offers"],
                "summary": "Accept a pending offer",
                "operationId": "acceptOffer",
                "parameters": [{"$ref": "#/parameters/OfferID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoanOffer"}},
                    "409": {"description": "Expired, not pending or application not approved", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/offers/{offer_id}:decline": {
            "post": {
                "tags": ["Offers"],
                "summary": "Decline a pending offer",
                "operationId": "declineOffer",
                "parameters": [{"$ref": "#/parameters/OfferID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoanOffer"}},
                    "409": {"description": "Not pending", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/applications/{application_id}/sponsor-match": {
            "get": {
                "tags": ["Sponsors"],
                "summary": "Best sponsor for an application",
                "description": "match is null when no sponsor scores at least 50.",
                "operationId": "findSponsorMatch",
                "parameters": [{"$ref": "#/parameters/ApplicationID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"match": {"$ref": "#/definitions/SponsorMatch"}}}}
                }
            }
        },
        "/applications/{application_id}/sponsor:assign": {
            "post": {
                "tags": ["Sponsors"],
                "summary": "Assign the best sponsor",
                "operationId": "assignSponsor",
                "parameters": [{"$ref": "#/parameters/ApplicationID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SponsorMatch"}},
                    "404": {"description": "No sponsor qualifies", "schema": {"$ref": "#/definitions/Problem"}},
                    "409": {"description": "Already assigned or sponsor full", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/sponsors": {
            "get": {
                "tags": ["Sponsors"],
                "summary": "List active sponsors",
                "operationId": "listSponsors",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Sponsor"}}}
                }
            }
        },
        "/credit-readiness": {
            "post": {
                "tags": ["Credit readiness"],
                "summary": "Score a self-reported profile",
                "operationId": "scoreReadiness",
                "security": [],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ApplicantProfile"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CreditScore"}}
                }
            }
        }
    },
    "parameters": {
        "ApplicationID": {"in": "path", "name": "application_id", "required": true, "type": "string"},
        "OfferID": {"in": "path", "name": "offer_id", "required": true, "type": "string"}
    },
    "definitions": {
        "ApplicationInput": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "personal_info": {"type": "object"},
                "kyc_documents": {"type": "object"},
                "education_info": {"type": "object"},
                "program_info": {"type": "object"},
                "financial_info": {"type": "object", "properties": {"household_income": {"type": "string", "example": "£60,000"}}},
                "loan": {"type": "object", "properties": {"type": {"type": "string", "enum": ["education-loan", "career-microloan", "income-share"]}, "amount": {"type": "string", "example": "25000"}, "purpose": {"type": "string"}}},
                "declarations": {"type": "object"}
            }
        },
        "LoanApplication": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string", "enum": ["draft", "submitted", "under_review", "approved", "rejected"]},
                "assigned_sponsor_id": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "SubScore": {
            "type": "object",
            "properties": {"score": {"type": "integer"}, "details": {"type": "string"}}
        },
        "RiskAssessment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "application_id": {"type": "string"},
                "risk_score": {"type": "integer", "minimum": 0, "maximum": 100},
                "risk_tier": {"type": "string", "enum": ["low", "medium", "high"]},
                "decision": {"type": "string", "enum": ["auto-approve", "manual-review", "decline"]},
                "sub_scores": {
                    "type": "object",
                    "properties": {
                        "affordability": {"$ref": "#/definitions/SubScore"},
                        "education": {"$ref": "#/definitions/SubScore"},
                        "employment": {"$ref": "#/definitions/SubScore"},
                        "sponsor": {"$ref": "#/definitions/SubScore"}
                    }
                },
                "rules_applied": {"type": "array", "items": {"type": "string"}},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "ReviewInput": {
            "type": "object",
            "required": ["outcome", "reason"],
            "properties": {
                "outcome": {"type": "string", "enum": ["approve", "reject"]},
                "reason": {"type": "string"},
                "reviewer_id": {"type": "string"}
            }
        },
        "LoanOffer": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "application_id": {"type": "string"},
                "assessment_id": {"type": "string"},
                "offer_type": {"type": "string", "enum": ["loan", "isa", "hybrid"]},
                "loan_amount": {"type": "number"},
                "requested_amount": {"type": "number"},
                "apr_rate": {"type": "number"},
                "isa_percentage": {"type": "number"},
                "repayment_term_months": {"type": "integer"},
                "grace_period_months": {"type": "integer"},
                "status": {"type": "string", "enum": ["pending", "accepted", "declined", "expired"]},
                "offer_valid_until": {"type": "string", "format": "date-time"}
            }
        },
        "UnderwritingResult": {
            "type": "object",
            "properties": {
                "application": {"$ref": "#/definitions/LoanApplication"},
                "assessment": {"$ref": "#/definitions/RiskAssessment"},
                "offer": {"$ref": "#/definitions/LoanOffer"}
            }
        },
        "Sponsor": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "expertise_areas": {"type": "array", "items": {"type": "string"}},
                "countries": {"type": "array", "items": {"type": "string"}},
                "career_focus": {"type": "array", "items": {"type": "string"}},
                "min_funding": {"type": "number"},
                "max_funding": {"type": "number"},
                "capacity": {"type": "integer"},
                "active": {"type": "boolean"}
            }
        },
        "SponsorMatch": {
            "type": "object",
            "properties": {
                "sponsor_id": {"type": "string"},
                "sponsor_name": {"type": "string"},
                "match_score": {"type": "integer"},
                "reason": {"type": "string"},
                "max_funding": {"type": "number"},
                "expertise": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ApplicantProfile": {
            "type": "object",
            "properties": {
                "income_range": {"type": "string", "enum": ["under-20k", "20k-40k", "40k-60k", "60k-plus"]},
                "employment_status": {"type": "string", "enum": ["full-time", "part-time", "self-employed", "student", "unemployed"]},
                "field_of_study": {"type": "string"},
                "has_co_signer": {"type": "boolean"},
                "credit_history": {"type": "string"},
                "loan_purpose": {"type": "string"}
            }
        },
        "CreditScore": {
            "type": "object",
            "properties": {
                "score": {"type": "integer"},
                "tier": {"type": "string", "enum": ["excellent", "good", "fair", "needs-improvement"]},
                "breakdown": {
                    "type": "object",
                    "properties": {
                        "income": {"type": "integer"},
                        "employment": {"type": "integer"},
                        "education": {"type": "integer"},
                        "co_signer": {"type": "integer"}
                    }
                },
                "tips": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Problem": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "about:blank"},
                "title": {"type": "string", "example": "Not Found"},
                "status": {"type": "integer", "example": 404},
                "detail": {"type": "string", "example": "Resource not found"}
            }
        }
    },
    "tags": [
        {"name": "Applications", "description": "Draft and submit loan applications"},
        {"name": "Underwriting", "description": "Risk assessment and manual review"},
        {"name": "Offers", "description": "Accept or decline generated offers"},
        {"name": "Sponsors", "description": "Sponsor matching and assignment"},
        {"name": "Credit readiness", "description": "Public pre-application check"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Education Loan API",
	Description:      "Education loan underwriting, offers and sponsor matching API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package http implements the HTTP handlers for the invoice export
// service. It is a thin layer between transport and business logic:
// handlers parse requests, delegate to the service layer, and format
// responses.
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Store
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/export/no-data",
//	    "title": "Not Found",
//	    "status": 404,
//	    "detail": "No data available for export",
//	    "instance": "/api/invoices/export/csv"
//	}
//
// Service sentinel errors are mapped to API errors in the handlers;
// anything unmapped becomes a generic internal server problem.
//
// # Testing
//
// Handlers are tested with httptest against mock service
// implementations, verifying both success envelopes and problem
// responses.
package http

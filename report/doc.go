// Package report turns analysis results into text for people: the balance
// table, insights, cycle listings, settlement suggestions and the
// condonation notice handed to an external delivery layer.
package report

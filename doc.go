// Package amo models networks of mutual debts and the operations that
// simplify them.
//
// A network is a square matrix of non-negative whole amounts, where entry
// [i][j] is what party i owes party j, plus one name per party. The module
// is organized one package per concern:
//
//	debtmatrix/  the validated matrix, party names, padding
//	balance/     what each party owes, is owed and nets
//	dijkstra/    cheapest chains of debts between two parties
//	cycle/       simple debt cycles, bottlenecks, shortest way back
//	settlement/  net-balance plans and cycle cancellation
//	merge/       joining two networks with a single bridge debt
//	codec/       JSON and Base64 wire forms
//	report/      text tables, settlement lines, condonation notices
//	simulation/  seeded batch trials over random networks
//	config/      YAML/TOML, .env and AMO_* configuration
//	api/         the HTTP surface
//	cmd/amo/     the command-line tool
//
// The algorithm packages never log and never panic on user input: every
// failure is an error value that matches one of the package sentinels with
// errors.Is.
package amo

// Package simulation runs the batch workload: thousands of independent
// random debt networks, each routed from one source party to every other
// party and to one fixed target, producing transaction records with a
// unique ID, the route and its cost in @mo.
//
// Trials run on an errgroup-bounded worker pool. Every trial seeds its own
// generator from (seed, trial index), so a run is reproducible no matter how
// trials are scheduled.
package simulation

// Package domain contains the core business entities of the fitness log:
// users, the exercise catalog, workouts and the per-workout exercise
// prescriptions, together with the value types used for partial updates and
// the role-based authorization predicate. It has no knowledge of storage or
// transport.
package domain

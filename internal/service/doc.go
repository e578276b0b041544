// Package service contains the use cases of the fitness log: account
// lifecycle (AuthService), the exercise catalog (ExerciseService) and
// owner-scoped workouts (WorkoutService).
//
// Services depend on the store interfaces and on RunInTransaction. Every
// write happens inside one transaction per operation; stores are bound to
// it with WithTx. Expected failures are returned as domain sentinels, which
// the API layer maps to status codes. Unexpected failures are wrapped in a
// *ServiceError.
package service

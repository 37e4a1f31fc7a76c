package service

import "context"

// TxRepositories provides transaction-bound repositories.
type TxRepositories interface {
	Bookings() BookingRepositoryInterface
	TripPlans() TripPlanRepositoryInterface
	Feedback() FeedbackRepositoryInterface
	Sessions() SessionRepositoryInterface
	Documents() DocumentRepositoryInterface
	IndexJobs() IndexJobRepositoryInterface
}

// TxRunner executes a function within a transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}

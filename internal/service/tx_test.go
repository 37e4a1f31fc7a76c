package service

import "context"

type testTxRepos struct {
	bookings  BookingRepositoryInterface
	tripPlans TripPlanRepositoryInterface
	feedback  FeedbackRepositoryInterface
	sessions  SessionRepositoryInterface
	documents DocumentRepositoryInterface
	indexJobs IndexJobRepositoryInterface
}

func (t *testTxRepos) Bookings() BookingRepositoryInterface {
	return t.bookings
}

func (t *testTxRepos) TripPlans() TripPlanRepositoryInterface {
	return t.tripPlans
}

func (t *testTxRepos) Feedback() FeedbackRepositoryInterface {
	return t.feedback
}

func (t *testTxRepos) Sessions() SessionRepositoryInterface {
	return t.sessions
}

func (t *testTxRepos) Documents() DocumentRepositoryInterface {
	return t.documents
}

func (t *testTxRepos) IndexJobs() IndexJobRepositoryInterface {
	return t.indexJobs
}

type testTxRunner struct {
	repos  TxRepositories
	called bool
}

func (t *testTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	t.called = true
	return fn(t.repos)
}

package dynamo

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/trackmyexpense/backend/internal/apperr"
)

// translate maps DynamoDB failures onto the application taxonomy. Transaction
// cancellations and conditional failures are conflicts (safe to retry the
// whole operation), capacity failures are throughput, everything else is
// fatal for the request.
func translate(op string, err error) error {
	var (
		canceled   *types.TransactionCanceledException
		inProgress *types.TransactionInProgressException
		conflict   *types.TransactionConflictException
		condFailed *types.ConditionalCheckFailedException
		throughput *types.ProvisionedThroughputExceededException
		limit      *types.RequestLimitExceeded
	)
	switch {
	case errors.As(err, &canceled):
		// A cancellation can also be capacity-driven; check the per-item
		// reasons before calling it a conflict.
		for _, r := range canceled.CancellationReasons {
			if r.Code != nil && *r.Code == "ProvisionedThroughputExceeded" {
				return apperr.Wrap(apperr.Throughput, op+": transaction canceled on capacity", err)
			}
		}
		return apperr.Wrap(apperr.Conflict, op+": transaction canceled", err)
	case errors.As(err, &conflict), errors.As(err, &inProgress), errors.As(err, &condFailed):
		return apperr.Wrap(apperr.Conflict, op+": write conflict", err)
	case errors.As(err, &throughput), errors.As(err, &limit):
		return apperr.Wrap(apperr.Throughput, op+": throughput exceeded", err)
	default:
		return apperr.Wrap(apperr.Unavailable, op+": store request failed", err)
	}
}

package dynamo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/trackmyexpense/backend/internal/apperr"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{
			name: "transaction canceled on conflict",
			err: &types.TransactionCanceledException{
				CancellationReasons: []types.CancellationReason{
					{Code: aws.String("TransactionConflict")},
				},
			},
			want: apperr.Conflict,
		},
		{
			name: "transaction canceled on capacity",
			err: &types.TransactionCanceledException{
				CancellationReasons: []types.CancellationReason{
					{Code: aws.String("None")},
					{Code: aws.String("ProvisionedThroughputExceeded")},
				},
			},
			want: apperr.Throughput,
		},
		{
			name: "conditional check failed",
			err:  &types.ConditionalCheckFailedException{},
			want: apperr.Conflict,
		},
		{
			name: "transaction conflict",
			err:  &types.TransactionConflictException{},
			want: apperr.Conflict,
		},
		{
			name: "transaction in progress",
			err:  &types.TransactionInProgressException{},
			want: apperr.Conflict,
		},
		{
			name: "provisioned throughput exceeded",
			err:  &types.ProvisionedThroughputExceededException{},
			want: apperr.Throughput,
		},
		{
			name: "request limit exceeded",
			err:  &types.RequestLimitExceeded{},
			want: apperr.Throughput,
		},
		{
			name: "anything else",
			err:  errors.New("connection reset"),
			want: apperr.Unavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate("atomic write", tt.err)
			if apperr.KindOf(got) != tt.want {
				t.Errorf("Expected kind %v, got %v (%v)", tt.want, apperr.KindOf(got), got)
			}
			if !errors.Is(got, tt.err) {
				t.Error("Translated error should wrap the original")
			}
		})
	}
}

func TestTranslateWrappedDeep(t *testing.T) {
	inner := &types.TransactionCanceledException{}
	got := translate("atomic write", fmt.Errorf("operation error DynamoDB: %w", inner))
	if apperr.KindOf(got) != apperr.Conflict {
		t.Errorf("Expected Conflict through SDK wrapping, got %v", apperr.KindOf(got))
	}
}

func TestTranslatedFailuresAreRetryable(t *testing.T) {
	if !apperr.Retryable(translate("x", &types.TransactionCanceledException{})) {
		t.Error("Cancellation should be retryable")
	}
	if !apperr.Retryable(translate("x", &types.ProvisionedThroughputExceededException{})) {
		t.Error("Throughput should be retryable")
	}
	if apperr.Retryable(translate("x", errors.New("fatal"))) {
		t.Error("Unavailable must not be retryable")
	}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	storeDown := errors.New("connection refused")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{name: "validation", err: Validationf("invalid appliedTo index %d", 4), wantStatus: http.StatusBadRequest, wantType: HttpValidationError},
		{name: "wrapped not found", err: fmt.Errorf("load report: %w", NotFoundf("report %q", "r1")), wantStatus: http.StatusNotFound, wantType: HttpNotFoundError},
		{name: "conflict", err: ErrConflict, wantStatus: http.StatusConflict, wantType: HttpConflictError},
		{name: "evaluation", err: Evaluationf(storeDown, "find instances"), wantStatus: http.StatusInternalServerError, wantType: HttpEvaluationError},
		{name: "unknown", err: storeDown, wantStatus: http.StatusInternalServerError, wantType: HttpInternalError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := Classify(tc.err)
			require.Equal(t, tc.wantStatus, status)
			require.Equal(t, tc.wantType, body.ErrorType)
		})
	}
}

func TestEvaluationf_KeepsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Evaluationf(cause, "get versions for %s", "invoice")

	require.ErrorIs(t, err, ErrEvaluation)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "get versions for invoice")
}

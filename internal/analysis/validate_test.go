package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlift/partnerfit/internal/model"
)

func validRequest() model.BulkRequest {
	return model.BulkRequest{
		Profiles:     []string{"alice", "bob"},
		AnalysisType: model.AnalysisTypeBrandFit,
		BusinessID:   "biz-1",
		UserID:       "user-1",
	}
}

func TestValidateRequest_OK(t *testing.T) {
	got, err := ValidateRequest(validRequest(), 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, got.Profiles)
}

func TestValidateRequest_NormalizesHandles(t *testing.T) {
	req := validRequest()
	req.Profiles = []string{"  @Alice ", "BOB", "@charlie"}

	got, err := ValidateRequest(req, 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "charlie"}, got.Profiles)
}

func TestValidateRequest_KeepsDuplicates(t *testing.T) {
	req := validRequest()
	req.Profiles = []string{"alice", "@ALICE"}

	got, err := ValidateRequest(req, 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "alice"}, got.Profiles)
}

func TestValidateRequest_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.BulkRequest)
		field  string
	}{
		{
			name:   "empty profiles",
			mutate: func(r *model.BulkRequest) { r.Profiles = nil },
			field:  "profiles",
		},
		{
			name: "too many profiles",
			mutate: func(r *model.BulkRequest) {
				r.Profiles = make([]string, 51)
				for i := range r.Profiles {
					r.Profiles[i] = "handle"
				}
			},
			field: "profiles",
		},
		{
			name:   "unsupported analysis type",
			mutate: func(r *model.BulkRequest) { r.AnalysisType = "sentiment" },
			field:  "analysis_type",
		},
		{
			name:   "blank business id",
			mutate: func(r *model.BulkRequest) { r.BusinessID = "  " },
			field:  "business_id",
		},
		{
			name:   "blank user id",
			mutate: func(r *model.BulkRequest) { r.UserID = "" },
			field:  "user_id",
		},
		{
			name:   "handle collapses to empty",
			mutate: func(r *model.BulkRequest) { r.Profiles = []string{"alice", " @ "} },
			field:  "profiles",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := ValidateRequest(req, 50)
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "alice", NormalizeHandle(" @Alice "))
	assert.Equal(t, "bob_99", NormalizeHandle("BOB_99"))
	assert.Equal(t, "", NormalizeHandle("@"))
	// NFKC folds fullwidth characters to ASCII.
	assert.Equal(t, "abc", NormalizeHandle("ＡＢＣ"))
}

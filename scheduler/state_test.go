package scheduler

import "testing"

func TestAccountStateString(t *testing.T) {
	tests := []struct {
		state AccountState
		want  string
	}{
		{StatePending, "pending"},
		{StateQuotaChecked, "quota_checked"},
		{StateActive, "active"},
		{StateExhausted, "exhausted"},
		{StateUnusable, "unusable"},
		{AccountState(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("AccountState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

package v1

import (
	"testing"

	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/stretchr/testify/require"
)

func TestTransactionRequest_Columns(t *testing.T) {
	req := TransactionRequest{Lines: []TransactionLine{
		{Account: " Cash ", Added: "500"},
		{Account: "Revenue", Removed: "500"},
	}}
	require.NoError(t, req.Validate())

	names, added, removed := req.Columns()
	require.Equal(t, []string{"Cash", "Revenue"}, names)
	require.Equal(t, []string{"500", "0"}, added)
	require.Equal(t, []string{"0", "500"}, removed)
}

func TestTransactionRequest_Validate(t *testing.T) {
	require.Error(t, (&TransactionRequest{}).Validate())
	require.Error(t, (&TransactionRequest{Lines: []TransactionLine{{Account: " ", Added: "1"}}}).Validate())
}

func TestInviteRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     InviteRequest
		want    event.Permissions
		wantErr bool
	}{
		{
			name: "names are case-insensitive",
			req:  InviteRequest{Username: "bob", Permissions: []string{"read", "AppendTransaction"}},
			want: event.PermRead | event.PermAppendTransaction,
		},
		{
			name:    "missing username",
			req:     InviteRequest{Permissions: []string{"READ"}},
			wantErr: true,
		},
		{
			name:    "no permissions",
			req:     InviteRequest{Username: "bob"},
			wantErr: true,
		},
		{
			name:    "unknown permission",
			req:     InviteRequest{Username: "bob", Permissions: []string{"READ", "ADMIN"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCents(t *testing.T) {
	require.Equal(t, "15.00", FormatCents(1500))
	require.Equal(t, "-15.00", FormatCents(-1500))
	require.Equal(t, "0.07", FormatCents(7))
	require.Equal(t, "0.00", FormatCents(0))
}

func TestNewAccountResponse(t *testing.T) {
	require.Equal(t, AccountResponse{Name: "Cash", BalanceCents: -250, Balance: "-2.50"}, NewAccountResponse("Cash", -250))
}

func TestSignUpRequest_Validate(t *testing.T) {
	require.NoError(t, (&SignUpRequest{Username: "alice", Password: "pw"}).Validate())
	require.Error(t, (&SignUpRequest{Username: " ", Password: "pw"}).Validate())
	require.Error(t, (&SignUpRequest{Username: "alice"}).Validate())
}

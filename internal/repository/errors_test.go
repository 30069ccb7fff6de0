package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "duplicate entry error",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '3-17' for key 'uq_reservations_showing_seat'"},
			want: true,
		},
		{
			name: "wrapped duplicate entry error",
			err:  fmt.Errorf("insert reservation: %w", &mysql.MySQLError{Number: 1062}),
			want: true,
		},
		{
			name: "other mysql error",
			err:  &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"},
			want: false,
		},
		{
			name: "plain error mentioning the code",
			err:  errors.New("Error 1062: duplicate entry"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDuplicateKey(tt.err))
		})
	}
}

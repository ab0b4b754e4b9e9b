package notifier

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatPhoneNumber(t *testing.T) {
	cases := map[string]string{
		"087858520937":    "6287858520937",
		"0878-5852-0937":  "6287858520937",
		"+6287858520937":  "6287858520937",
		"6287858520937":   "6287858520937",
		"87858520937":     "6287858520937",
		"(0812) 3456-789": "628123456789",
	}

	for input, want := range cases {
		require.Equal(t, want, FormatPhoneNumber(input), "input %q", input)
	}
}

func TestMapsLink(t *testing.T) {
	require.Equal(t, "https://www.google.com/maps?q=-7.2575,112.7521", MapsLink(-7.2575, 112.7521))
}

func TestCallbackDataRoundTrip(t *testing.T) {
	control := Control{Action: ActionHandle, Label: "✅ Handle", AccidentID: 42}
	require.Equal(t, "handle_42", control.CallbackData())

	action, id, err := ParseCallbackData(control.CallbackData())
	require.NoError(t, err)
	require.Equal(t, ActionHandle, action)
	require.Equal(t, uint(42), id)

	action, id, err = ParseCallbackData("reject_7")
	require.NoError(t, err)
	require.Equal(t, ActionReject, action)
	require.Equal(t, uint(7), id)
}

func TestParseCallbackDataRejectsGarbage(t *testing.T) {
	for _, data := range []string{"", "handle", "resolve_42", "handle_abc", "handle_", "42_handle"} {
		_, _, err := ParseCallbackData(data)
		require.ErrorIs(t, err, ErrInvalidAction, "data %q", data)
	}
}

package signature

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOrderID   = "order_ABC123"
	testPaymentID = "pay_XYZ789"
	testSecret    = "testsecret"
	// HMAC-SHA256("testsecret", "order_ABC123|pay_XYZ789")
	testSignature = "8ab882b69975648bd036bb84b853484100f7addce5cead23e8a2d9ffe5ba21c8"
)

func TestNewVerifier_EmptySecret(t *testing.T) {
	v, err := NewVerifier("")
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrSecretMissing)
}

func TestSign_KnownVector(t *testing.T) {
	assert.Equal(t, testSignature, Sign(testOrderID, testPaymentID, testSecret))
}

func TestVerify_KnownScenario(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	assert.Equal(t, OutcomeAuthentic, v.Verify(testOrderID, testPaymentID, testSignature))

	for i := range testSignature {
		altered := []byte(testSignature)
		if altered[i] == '0' {
			altered[i] = '1'
		} else {
			altered[i] = '0'
		}
		assert.Equal(t, OutcomeForged, v.Verify(testOrderID, testPaymentID, string(altered)), "position %d", i)
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	cases := []struct {
		order, payment, secret string
	}{
		{"order_1", "pay_1", "k"},
		{"order_with|pipe", "pay", "another secret"},
		{"", "", "s"},
		{"ордер", "платёж", "ключ"},
	}
	for _, tc := range cases {
		sig := Sign(tc.order, tc.payment, tc.secret)
		assert.Equal(t, OutcomeAuthentic, Verify(tc.order, tc.payment, sig, tc.secret))
		assert.Len(t, sig, 64)
		assert.Equal(t, strings.ToLower(sig), sig)
	}
}

func TestVerify_Forged(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"uppercase":    strings.ToUpper(testSignature),
		"truncated":    testSignature[:63],
		"extended":     testSignature + "0",
		"padded":       " " + testSignature,
		"other secret": "49057bcacab07e3c480d14e4bb5d29cfb1c4cc7120f166f01ee71eaee2017d49",
	}
	for name, sig := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, OutcomeForged, Verify(testOrderID, testPaymentID, sig, testSecret))
		})
	}
}

func TestVerify_SecretChangeFlipsVerdict(t *testing.T) {
	assert.Equal(t, OutcomeAuthentic, Verify(testOrderID, testPaymentID, testSignature, testSecret))
	assert.Equal(t, OutcomeForged, Verify(testOrderID, testPaymentID, testSignature, "othersecret"))
}

func TestSign_OrderMatters(t *testing.T) {
	forward := Sign(testOrderID, testPaymentID, testSecret)
	swapped := Sign(testPaymentID, testOrderID, testSecret)

	assert.NotEqual(t, forward, swapped)
	assert.Equal(t, "452f4db82c9f30390ca10d4a23c26f60a99756550c12d132dff41e46dac15d32", swapped)
	assert.Equal(t, OutcomeForged, Verify(testPaymentID, testOrderID, testSignature, testSecret))
}

func TestSign_EmptyReferencesAreDeterministic(t *testing.T) {
	first := Sign("", "", testSecret)
	second := Sign("", "", testSecret)

	assert.Equal(t, first, second)
	assert.Equal(t, "a14bb9be44d6d797d0c7b8630333e1fd7d939c8b48e8fff0413cdfd47e525549", first)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, []byte("order_ABC123|pay_XYZ789"), Message(testOrderID, testPaymentID))
}

func TestVerify_Idempotent(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, OutcomeAuthentic, v.Verify(testOrderID, testPaymentID, testSignature))
		assert.Equal(t, OutcomeForged, v.Verify(testOrderID, testPaymentID, "deadbeef"))
	}
}

func TestVerify_Concurrent(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Outcome, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = v.Verify(testOrderID, testPaymentID, testSignature)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, OutcomeAuthentic, r)
	}
}

func TestCheck(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  VerificationRequest
		want Outcome
	}{
		{"authentic", VerificationRequest{testOrderID, testPaymentID, testSignature}, OutcomeAuthentic},
		{"forged", VerificationRequest{testOrderID, testPaymentID, "abc"}, OutcomeForged},
		{"missing order", VerificationRequest{"", testPaymentID, testSignature}, OutcomeMissingField},
		{"missing signature", VerificationRequest{testOrderID, testPaymentID, ""}, OutcomeMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Check(tt.req))
		})
	}
}

func TestCheck_NilVerifier(t *testing.T) {
	var v *Verifier
	assert.Equal(t, OutcomeConfigurationMissing, v.Check(VerificationRequest{testOrderID, testPaymentID, testSignature}))
}

func TestValidate(t *testing.T) {
	err := VerificationRequest{PaymentID: testPaymentID}.Validate()

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"razorpay_order_id", "razorpay_signature"}, missing.Fields)
	assert.Equal(t, "missing required fields: razorpay_order_id, razorpay_signature", err.Error())

	assert.NoError(t, VerificationRequest{testOrderID, testPaymentID, testSignature}.Validate())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "authentic", OutcomeAuthentic.String())
	assert.Equal(t, "forged", OutcomeForged.String())
	assert.Equal(t, "missing_field", OutcomeMissingField.String())
	assert.Equal(t, "configuration_missing", OutcomeConfigurationMissing.String())
	assert.Equal(t, "unknown", Outcome(0).String())
}

package response

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopes(t *testing.T) {
	b, err := json.Marshal(Message(http.StatusOK, "Request deleted"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","status_code":200,"data":{"message":"Request deleted"}}`, string(b))

	b, err = json.Marshal(Error(http.StatusNotFound, "Request not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","status_code":404,"error":"Request not found"}`, string(b))

	b, err = json.Marshal(Success(http.StatusOK, []int{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","status_code":200,"data":[]}`, string(b))
}

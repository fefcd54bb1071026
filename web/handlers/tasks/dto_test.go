package tasks

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockInDTOBinding(t *testing.T) {
	t.Run("Zero coordinates are valid", func(t *testing.T) {
		var dto ClockInDTO
		err := binding.JSON.BindBody([]byte(`{"latitude":0,"longitude":0}`), &dto)
		require.NoError(t, err)
		assert.EqualValues(t, 0, *dto.Latitude)
		assert.EqualValues(t, 0, *dto.Longitude)
		assert.Nil(t, dto.Accuracy)
	})

	t.Run("Missing coordinates are rejected", func(t *testing.T) {
		var dto ClockInDTO
		err := binding.JSON.BindBody([]byte(`{"accuracy":5}`), &dto)
		assert.Error(t, err)
	})

	t.Run("Out of range latitude is rejected", func(t *testing.T) {
		var dto ClockInDTO
		err := binding.JSON.BindBody([]byte(`{"latitude":91,"longitude":0}`), &dto)
		assert.Error(t, err)
	})
}

func TestClockOutDTOBinding(t *testing.T) {
	t.Run("Zero coordinates are valid", func(t *testing.T) {
		var dto ClockOutDTO
		err := binding.JSON.BindBody([]byte(`{"latitude":0,"longitude":0,"workSummary":"done"}`), &dto)
		require.NoError(t, err)
		assert.EqualValues(t, 0, *dto.Latitude)
	})

	t.Run("Missing work summary is rejected", func(t *testing.T) {
		var dto ClockOutDTO
		err := binding.JSON.BindBody([]byte(`{"latitude":0,"longitude":0}`), &dto)
		assert.Error(t, err)
	})
}

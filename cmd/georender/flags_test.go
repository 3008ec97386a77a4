package main_test

import (
	"testing"
	"time"

	"github.com/fwojciec/georender"
	main "github.com/fwojciec/georender/cmd/georender"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want georender.WaitAction
	}{
		{"delay:500ms", georender.WaitDelay(500 * time.Millisecond)},
		{"delay:1500", georender.WaitDelay(1500 * time.Millisecond)},
		{"selector:#main", georender.WaitForSelector("#main")},
		{"selector:#main:hidden", georender.WaitForSelector("#main", georender.WithState(georender.StateHidden))},
		{"selector:a:hover", georender.WaitForSelector("a:hover")},
		{"text:Hello", georender.WaitForText("Hello")},
		{"text:Hello@.greeting", georender.WaitForText("Hello", georender.InSelector(".greeting"))},
		{"text:me@", georender.WaitForText("me@")},
		{"click:#accept", georender.Click("#accept")},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			got, err := main.ParseWait(tt.value)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, value := range []string{"delay", "delay:soon", "hover:#x", "selector:"} {
		t.Run("rejects "+value, func(t *testing.T) {
			t.Parallel()

			_, err := main.ParseWait(value)

			assert.Equal(t, georender.EINVALID, georender.ErrorCode(err))
		})
	}
}

func TestRenderFlags_Options(t *testing.T) {
	t.Parallel()

	t.Run("leaves unset flags out", func(t *testing.T) {
		t.Parallel()

		opts, err := (&main.RenderFlags{}).Options(false)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"url": "https://example.com"}, opts.Payload("https://example.com"))
	})

	t.Run("ignores screenshot settings without a screenshot", func(t *testing.T) {
		t.Parallel()

		opts, err := (&main.RenderFlags{ScreenshotFormat: "jpeg", FullPage: true}).Options(false)

		require.NoError(t, err)
		assert.Nil(t, opts.ScreenshotFormat)
		assert.Nil(t, opts.ScreenshotFullPage)
	})

	t.Run("maps every flag", func(t *testing.T) {
		t.Parallel()

		f := &main.RenderFlags{
			Country:           "us",
			City:              "us.new-york",
			FetchURL:          []string{"https://example.com/api"},
			Wait:              []string{"click:#accept"},
			Captcha:           "auto",
			BlockImages:       georender.Ptr(false),
			ScreenshotFormat:  "webp",
			ScreenshotQuality: 80,
			FullPage:          true,
		}

		opts, err := f.Options(true)

		require.NoError(t, err)
		assert.Equal(t, "us", *opts.CountryCode)
		assert.Equal(t, "us.new-york", *opts.City)
		assert.Equal(t, []string{"https://example.com/api"}, opts.FetchURLs)
		assert.Equal(t, []georender.WaitAction{georender.Click("#accept")}, opts.WaitFor)
		assert.Equal(t, georender.CaptchaAuto, *opts.Captcha)
		assert.False(t, *opts.BlockImages)
		assert.True(t, *opts.IncludeScreenshot)
		assert.Equal(t, georender.ScreenshotWebP, *opts.ScreenshotFormat)
		assert.Equal(t, 80, *opts.ScreenshotQuality)
		assert.True(t, *opts.ScreenshotFullPage)
	})

	t.Run("rejects unknown captcha modes", func(t *testing.T) {
		t.Parallel()

		_, err := (&main.RenderFlags{Captcha: "magic"}).Options(false)

		assert.Equal(t, georender.EINVALID, georender.ErrorCode(err))
	})
}

package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type actionResponse struct {
	Status  string       `json:"status"`
	Data    ActionResult `json:"data"`
	Error   *CLIError    `json:"error"`
	Session string       `json:"session"`
}

func decodeAction(t *testing.T, out string) actionResponse {
	t.Helper()
	var resp actionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

func TestClickCommand(t *testing.T) {
	game := testGame(t)

	out, err := execute(t, append(game, "click", "3")...)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ click 3 (+3.30)")
	assert.Contains(t, out, "• click")
	assert.Contains(t, out, "• achievementUnlocked achievement=firstClick")
	assert.Contains(t, out, "Balance: 3.30 coins")
}

func TestClickCommandJSON(t *testing.T) {
	game := testGame(t)

	out, err := execute(t, append(game, "--format", "json", "click")...)
	require.NoError(t, err)

	resp := decodeAction(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Session)
	assert.True(t, resp.Data.Applied)
	assert.Equal(t, 1.0, resp.Data.Value)
	assert.Equal(t, int64(1), resp.Data.State.TotalClicks)
	require.Len(t, resp.Data.Cues, 2)
	assert.Equal(t, "click", resp.Data.Cues[0].Cue)
	assert.Equal(t, "achievementUnlocked", resp.Data.Cues[1].Cue)
}

func TestClickCommandInvalidCount(t *testing.T) {
	game := testGame(t)

	for _, arg := range []string{"abc", "0", "-2"} {
		t.Run(arg, func(t *testing.T) {
			_, err := execute(t, append(game, "click", "--", arg)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), "positive integer")
		})
	}
}

func TestClickCommandPersistsBetweenRuns(t *testing.T) {
	game := testGame(t)

	_, err := execute(t, append(game, "click", "2")...)
	require.NoError(t, err)

	// The combo carries over: the third click is worth 1.2.
	out, err := execute(t, append(game, "--format", "json", "click")...)
	require.NoError(t, err)

	resp := decodeAction(t, out)
	assert.InDelta(t, 1.2, resp.Data.Value, 1e-9)
	assert.Equal(t, int64(3), resp.Data.State.TotalClicks)
	assert.InDelta(t, 3.3, resp.Data.State.Balance, 1e-9)
}

func TestBuyCommandRejected(t *testing.T) {
	game := testGame(t)

	out, err := execute(t, append(game, "buy", "sword")...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ buy sword was not applied")
}

func TestBuyCommandRejectedJSON(t *testing.T) {
	game := testGame(t)

	out, err := execute(t, append(game, "--format", "json", "buy", "sword")...)
	require.Error(t, err)

	resp := decodeAction(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_REJECTED", resp.Error.Code)
	assert.False(t, resp.Data.Applied)
}

func TestBuyCommandApplied(t *testing.T) {
	game := testGame(t)

	// 1.0 + 1.1 + ... + 1.8 = 12.6 coins.
	_, err := execute(t, append(game, "click", "9")...)
	require.NoError(t, err)

	out, err := execute(t, append(game, "--format", "json", "buy", "sword")...)
	require.NoError(t, err)

	resp := decodeAction(t, out)
	assert.True(t, resp.Data.Applied)
	assert.InDelta(t, 2.6, resp.Data.State.Balance, 1e-9)
	assert.Equal(t, 1, resp.Data.State.UpgradesOwned)
	assert.Equal(t, 2.0, resp.Data.State.ClickPower)
	require.NotEmpty(t, resp.Data.Cues)
	assert.Equal(t, "purchase", resp.Data.Cues[0].Cue)
}

func TestActionCommandsUnknownID(t *testing.T) {
	game := testGame(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"buy", "laser"}, `unknown upgrade "laser"`},
		{[]string{"pet", "dragon"}, `unknown pet "dragon"`},
		{[]string{"talent", "luck"}, `unknown talent "luck"`},
		{[]string{"claim", "side_quest"}, `unknown quest "side_quest"`},
		{[]string{"play", "pinball"}, `unknown mini-game "pinball"`},
		{[]string{"event", "supernova"}, `unknown event "supernova"`},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			out, err := execute(t, append(game, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "E_NOT_FOUND")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestActionCommandsRejectedOnFreshSave(t *testing.T) {
	game := testGame(t)

	tests := [][]string{
		{"prestige"},
		{"pet", "robo_cat"},
		{"talent", "click_mastery"},
		{"claim", "first_probe"},
	}

	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			_, err := execute(t, append(game, args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, err.Error(), "was not applied")
		})
	}
}

func TestPetNoneClearsPet(t *testing.T) {
	game := testGame(t)

	out, err := execute(t, append(game, "pet", "none")...)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ pet none")
}

func TestPlayCommandAsteroids(t *testing.T) {
	game := testGame(t)

	out, err := execute(t, append(game, "--format", "json", "play", "asteroids", "--score", "50")...)
	require.NoError(t, err)

	resp := decodeAction(t, out)
	assert.True(t, resp.Data.Applied)
	assert.Equal(t, 10.0, resp.Data.Value)
	assert.Equal(t, 10.0, resp.Data.State.Balance)
	assert.Equal(t, int64(1), resp.Data.State.MiniGamesPlayed)
}

func TestEventCommand(t *testing.T) {
	game := testGame(t)

	out, err := execute(t, append(game, "--format", "json", "event", "meteor_shower")...)
	require.NoError(t, err)

	resp := decodeAction(t, out)
	assert.True(t, resp.Data.Applied)
	assert.Equal(t, "meteor_shower", string(resp.Data.State.ActiveEvent))
	assert.Equal(t, 2.0, resp.Data.State.ClickPower)

	// One event at a time.
	_, err = execute(t, append(game, "event", "cosmic_ray")...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestFormatAttrs(t *testing.T) {
	assert.Equal(t, "", formatAttrs(nil))
	assert.Equal(t, " combo=1.10 upgrade=sword", formatAttrs(map[string]any{
		"upgrade": "sword",
		"combo":   1.1,
	}))
}

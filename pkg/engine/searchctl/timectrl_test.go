package searchctl_test

import (
	"testing"
	"time"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/engine/searchctl"
	"github.com/stretchr/testify/assert"
)

func TestTimeControlLimitsAssumes40MovesWhenUnspecified(t *testing.T) {
	tc := searchctl.TimeControl{White: 40 * time.Second, Black: 40 * time.Second}

	soft, hard := tc.Limits(board.White)
	assert.Equal(t, 40*time.Second/80, soft, "40s over an assumed 40 moves, halved for the soft limit")
	assert.Equal(t, 3*soft, hard)
	assert.Greater(t, soft, time.Duration(0))
}

func TestTimeControlLimitsHonorMovesToGo(t *testing.T) {
	tc := searchctl.TimeControl{White: 10 * time.Second, Moves: 4}

	soft, hard := tc.Limits(board.White)
	assert.Equal(t, 3*soft, hard)

	// Fewer remaining moves concentrates more time into each one.
	noMoves := searchctl.TimeControl{White: 10 * time.Second}
	softNoMoves, _ := noMoves.Limits(board.White)
	assert.Greater(t, soft, softNoMoves)
}

func TestTimeControlLimitsPicksSideToMovesClock(t *testing.T) {
	tc := searchctl.TimeControl{White: 10 * time.Second, Black: 20 * time.Second}

	wSoft, _ := tc.Limits(board.White)
	bSoft, _ := tc.Limits(board.Black)
	assert.Less(t, wSoft, bSoft)
}

package snowflake

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenID_Increasing(t *testing.T) {
	prev := GenID()
	require.Positive(t, prev)
	for i := 0; i < 1000; i++ {
		curr := GenID()
		require.Greater(t, curr, prev)
		prev = curr
	}
}

// 兑换单号、提现单号由多个请求并发生成
func TestGenSn_ConcurrentUnique(t *testing.T) {
	const workers, per = 16, 2000

	var (
		wg  conc.WaitGroup
		mu  sync.Mutex
		sns = make(map[string]struct{}, workers*per)
	)
	for w := 0; w < workers; w++ {
		prefix := "EX"
		if w%2 == 1 {
			prefix = "PO"
		}
		wg.Go(func() {
			local := make([]string, 0, per)
			for i := 0; i < per; i++ {
				local = append(local, GenSn(prefix))
			}
			mu.Lock()
			defer mu.Unlock()
			for _, sn := range local {
				sns[sn] = struct{}{}
			}
		})
	}
	wg.Wait()
	assert.Len(t, sns, workers*per)
}

func TestGenSn_Format(t *testing.T) {
	sn := GenSn("PO")
	require.True(t, strings.HasPrefix(sn, "PO"))
	// 单号列宽 32
	assert.LessOrEqual(t, len(sn), 32)
	_, err := strconv.ParseInt(sn[2:], 10, 64)
	assert.NoError(t, err)
}

package snowflake

import (
	"strconv"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

func init() {
	node, _ = snowflake.NewNode(1)
}

func GenID() int64 {
	return node.Generate().Int64()
}

// GenSn 生成带业务前缀的单号，如兑换单 EX1234...
func GenSn(prefix string) string {
	return prefix + strconv.FormatInt(GenID(), 10)
}

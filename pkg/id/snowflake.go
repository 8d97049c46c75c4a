package id

import (
	"github.com/bwmarrin/snowflake"
)

// Generator 全局唯一 ID 生成端口
// 产出正的 int64，时间趋势递增，房间和消息主键共用。
type Generator interface {
	NextID() int64
}

// snowflakeGenerator 基于雪花算法的实现
//
// 结构：41 bit 毫秒时间戳 + 10 bit 节点 + 12 bit 序列号
//   - 时间高位保证趋势递增，MySQL B+ 树顺序写入无页分裂
//   - 节点位保证多实例部署不冲突（node_id 来自配置）
//   - 首位恒为 0，满足"正整数"约定
type snowflakeGenerator struct {
	node *snowflake.Node
}

// NewSnowflakeGenerator 创建雪花 ID 生成器
// nodeID 取值 0~1023，多实例部署时必须互不相同。
func NewSnowflakeGenerator(nodeID int64) (Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &snowflakeGenerator{node: node}, nil
}

func (g *snowflakeGenerator) NextID() int64 {
	return g.node.Generate().Int64()
}

package consts

// GrpcAccountInclude 构造区块订阅过滤器：只推送涉及受跟踪程序的交易
func GrpcAccountInclude(programs []Program) []string {
	include := make([]string, 0, len(programs))
	for _, p := range programs {
		include = append(include, p.ID().String())
	}
	return include
}

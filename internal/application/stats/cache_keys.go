package stats

import "fmt"

// Keys are namespaced by table prefix so installations sharing a Redis do not collide.
func cacheKeyGeneration(namespace string) string {
	return fmt.Sprintf("linkanalyzer:%s:dashboard:gen", namespace)
}

func cacheKeyDashboard(namespace string, gen int64) string {
	return fmt.Sprintf("linkanalyzer:%s:dashboard:%d", namespace, gen)
}

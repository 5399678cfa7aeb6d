package kubernetes

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ExternalHost 查询 Ingress 已分配的外部地址。未分配（controller
// 还没写回 status）时返回空串，由编排层继续轮询。
func (d *ClusterDeployer) ExternalHost(ctx context.Context, namespace, name string) (string, error) {
	ing, err := d.client.NetworkingV1().Ingresses(namespace).Get(ctx, name, metav1.GetOptions{})
	if errors.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get ingress %s: %w", name, err)
	}

	for _, lb := range ing.Status.LoadBalancer.Ingress {
		if lb.Hostname != "" {
			return lb.Hostname, nil
		}
		if lb.IP != "" {
			// 地址已分配，对外域名用 rule host
			for _, rule := range ing.Spec.Rules {
				if rule.Host != "" {
					return rule.Host, nil
				}
			}
			return lb.IP, nil
		}
	}
	return "", nil
}

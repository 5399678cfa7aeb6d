package kubernetes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const maxDiagnosticEvents = 20

// Diagnostics 收集目标 namespace 的工作负载状态、近期事件和 Pod 列表，
// 供失败后的人工排查。任何一段收集失败都只记一行说明，不抛错 ——
// namespace 从未创建成功时也要能安全调用。
func (d *ClusterDeployer) Diagnostics(ctx context.Context, namespace string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== deployments (%s) ===\n", namespace)
	deploys, err := d.client.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		fmt.Fprintf(&b, "list deployments: %v\n", err)
	} else {
		for _, dep := range deploys.Items {
			fmt.Fprintf(&b, "%s: desired=%d updated=%d available=%d\n",
				dep.Name, *dep.Spec.Replicas, dep.Status.UpdatedReplicas, dep.Status.AvailableReplicas)
			for _, cond := range dep.Status.Conditions {
				fmt.Fprintf(&b, "  condition %s=%s: %s\n", cond.Type, cond.Status, cond.Message)
			}
		}
	}

	fmt.Fprintf(&b, "=== events (%s) ===\n", namespace)
	events, err := d.client.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		fmt.Fprintf(&b, "list events: %v\n", err)
	} else {
		items := events.Items
		sort.Slice(items, func(i, j int) bool {
			return items[i].LastTimestamp.Before(&items[j].LastTimestamp)
		})
		if len(items) > maxDiagnosticEvents {
			items = items[len(items)-maxDiagnosticEvents:]
		}
		for _, ev := range items {
			fmt.Fprintf(&b, "%s %s %s/%s: %s\n",
				ev.Type, ev.Reason, ev.InvolvedObject.Kind, ev.InvolvedObject.Name, ev.Message)
		}
	}

	fmt.Fprintf(&b, "=== pods (%s) ===\n", namespace)
	pods, err := d.client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		fmt.Fprintf(&b, "list pods: %v\n", err)
	} else {
		for _, pod := range pods.Items {
			restarts := int32(0)
			for _, cs := range pod.Status.ContainerStatuses {
				restarts += cs.RestartCount
			}
			fmt.Fprintf(&b, "%s: phase=%s restarts=%d\n", pod.Name, pod.Status.Phase, restarts)
		}
	}

	return b.String()
}

package kubernetes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
	"github.com/chiwei-platform/pipeline-engine/internal/port"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
)

var _ port.Deployer = (*ClusterDeployer)(nil)

const (
	defaultRolloutTimeout  = 300 * time.Second
	defaultRolloutInterval = 3 * time.Second
)

type ClusterDeployer struct {
	client           kubernetes.Interface
	pullSecretName   string
	dockerConfigJSON []byte
	rolloutTimeout   time.Duration
	rolloutInterval  time.Duration
}

type DeployerConfig struct {
	// PullSecretName 为空时不创建拉取凭证（如公开镜像仓库）。
	PullSecretName   string
	DockerConfigJSON []byte
}

func NewClusterDeployer(client kubernetes.Interface, cfg DeployerConfig) *ClusterDeployer {
	return &ClusterDeployer{
		client:           client,
		pullSecretName:   cfg.PullSecretName,
		dockerConfigJSON: cfg.DockerConfigJSON,
		rolloutTimeout:   defaultRolloutTimeout,
		rolloutInterval:  defaultRolloutInterval,
	}
}

// Prepare 确保 namespace 和镜像拉取凭证存在。重复调用安全。
func (d *ClusterDeployer) Prepare(ctx context.Context, namespace string) error {
	ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: namespace}}
	if _, err := d.client.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{}); err != nil && !errors.IsAlreadyExists(err) {
		return fmt.Errorf("create namespace %s: %w", namespace, err)
	}

	if d.pullSecretName == "" || len(d.dockerConfigJSON) == 0 {
		return nil
	}
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      d.pullSecretName,
			Namespace: namespace,
		},
		Type: corev1.SecretTypeDockerConfigJson,
		Data: map[string][]byte{
			corev1.DockerConfigJsonKey: d.dockerConfigJSON,
		},
	}
	existing, err := d.client.CoreV1().Secrets(namespace).Get(ctx, d.pullSecretName, metav1.GetOptions{})
	if errors.IsNotFound(err) {
		_, err = d.client.CoreV1().Secrets(namespace).Create(ctx, secret, metav1.CreateOptions{})
		if err != nil {
			return fmt.Errorf("create pull secret: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("get pull secret: %w", err)
	}
	existing.Type = secret.Type
	existing.Data = secret.Data
	if _, err := d.client.CoreV1().Secrets(namespace).Update(ctx, existing, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("update pull secret: %w", err)
	}
	return nil
}

// Apply 以 get→create/update 的 apply 语义下发全部资源。
func (d *ClusterDeployer) Apply(ctx context.Context, spec domain.ManifestSpec) (string, error) {
	ns := namespaceFor(spec)
	deploy := deploymentFor(spec)
	if d.pullSecretName != "" {
		deploy.Spec.Template.Spec.ImagePullSecrets = []corev1.LocalObjectReference{
			{Name: d.pullSecretName},
		}
	}
	svc := serviceFor(spec)
	ing := ingressFor(spec)

	if err := d.applyDeployment(ctx, deploy); err != nil {
		return "", fmt.Errorf("apply deployment: %w", err)
	}
	if err := d.applyService(ctx, svc); err != nil {
		return "", fmt.Errorf("apply service: %w", err)
	}
	if err := d.applyIngress(ctx, ing); err != nil {
		return "", fmt.Errorf("apply ingress: %w", err)
	}

	return renderManifest([]runtime.Object{ns, deploy, svc, ing}...)
}

func (d *ClusterDeployer) applyDeployment(ctx context.Context, deploy *appsv1.Deployment) error {
	existing, err := d.client.AppsV1().Deployments(deploy.Namespace).Get(ctx, deploy.Name, metav1.GetOptions{})
	if errors.IsNotFound(err) {
		_, err = d.client.AppsV1().Deployments(deploy.Namespace).Create(ctx, deploy, metav1.CreateOptions{})
		return err
	}
	if err != nil {
		return err
	}
	existing.Spec = deploy.Spec
	existing.Labels = deploy.Labels
	_, err = d.client.AppsV1().Deployments(deploy.Namespace).Update(ctx, existing, metav1.UpdateOptions{})
	return err
}

func (d *ClusterDeployer) applyService(ctx context.Context, svc *corev1.Service) error {
	existing, err := d.client.CoreV1().Services(svc.Namespace).Get(ctx, svc.Name, metav1.GetOptions{})
	if errors.IsNotFound(err) {
		_, err = d.client.CoreV1().Services(svc.Namespace).Create(ctx, svc, metav1.CreateOptions{})
		return err
	}
	if err != nil {
		return err
	}
	// ClusterIP 等运行时字段不可改，只同步端口和选择器
	existing.Spec.Ports = svc.Spec.Ports
	existing.Spec.Selector = svc.Spec.Selector
	_, err = d.client.CoreV1().Services(svc.Namespace).Update(ctx, existing, metav1.UpdateOptions{})
	return err
}

func (d *ClusterDeployer) applyIngress(ctx context.Context, ing *networkingv1.Ingress) error {
	existing, err := d.client.NetworkingV1().Ingresses(ing.Namespace).Get(ctx, ing.Name, metav1.GetOptions{})
	if errors.IsNotFound(err) {
		_, err = d.client.NetworkingV1().Ingresses(ing.Namespace).Create(ctx, ing, metav1.CreateOptions{})
		return err
	}
	if err != nil {
		return err
	}
	existing.Spec = ing.Spec
	_, err = d.client.NetworkingV1().Ingresses(ing.Namespace).Update(ctx, existing, metav1.UpdateOptions{})
	return err
}

// WaitHealthy 轮询 Deployment 直到所有副本就绪，或单次尝试超时。
// Pod 进入 CrashLoopBackOff / ImagePullBackOff 时提前失败，不等超时。
func (d *ClusterDeployer) WaitHealthy(ctx context.Context, namespace, name string) error {
	ctx, cancel := context.WithTimeout(ctx, d.rolloutTimeout)
	defer cancel()

	ticker := time.NewTicker(d.rolloutInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("deployment %s rollout timed out after %s", name, d.rolloutTimeout)
		case <-ticker.C:
			deploy, err := d.client.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
			if err != nil {
				return fmt.Errorf("get deployment %s: %w", name, err)
			}

			// Progressing condition 为 False 表示部署卡住
			for _, cond := range deploy.Status.Conditions {
				if cond.Type == appsv1.DeploymentProgressing && cond.Status == corev1.ConditionFalse {
					return fmt.Errorf("deployment %s is not progressing: %s", name, cond.Message)
				}
			}

			if reason, failed := d.detectPodFailure(ctx, deploy); failed {
				return fmt.Errorf("deployment %s pods failing: %s", name, reason)
			}

			spec := deploy.Spec
			status := deploy.Status
			if status.ObservedGeneration >= deploy.Generation &&
				status.UpdatedReplicas == *spec.Replicas &&
				status.AvailableReplicas == *spec.Replicas {
				slog.Info("deployment rollout complete", "namespace", namespace, "name", name)
				return nil
			}
		}
	}
}

// detectPodFailure 扫描选中的 Pod，识别不会自愈的等待原因。
func (d *ClusterDeployer) detectPodFailure(ctx context.Context, deploy *appsv1.Deployment) (string, bool) {
	selector := metav1.FormatLabelSelector(deploy.Spec.Selector)
	pods, err := d.client.CoreV1().Pods(deploy.Namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector,
	})
	if err != nil {
		return "", false
	}

	for _, pod := range pods.Items {
		statuses := append([]corev1.ContainerStatus{}, pod.Status.InitContainerStatuses...)
		statuses = append(statuses, pod.Status.ContainerStatuses...)
		for _, cs := range statuses {
			if cs.State.Waiting == nil {
				continue
			}
			switch cs.State.Waiting.Reason {
			case "CrashLoopBackOff":
				return fmt.Sprintf("container %s in CrashLoopBackOff: %s", cs.Name, cs.State.Waiting.Message), true
			case "ImagePullBackOff", "ErrImagePull":
				return fmt.Sprintf("container %s failed to pull image: %s", cs.Name, cs.State.Waiting.Message), true
			}
		}
	}
	return "", false
}

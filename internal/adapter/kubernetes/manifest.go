package kubernetes

import (
	"strings"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/yaml"
)

const (
	replicaCount    = int32(2)
	servicePort     = int32(80)
	revisionHistory = int32(2)
)

// namespaceFor 等四个构造函数是 ManifestSpec 的纯函数，不访问集群。
func namespaceFor(spec domain.ManifestSpec) *corev1.Namespace {
	return &corev1.Namespace{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Namespace"},
		ObjectMeta: metav1.ObjectMeta{Name: spec.Namespace},
	}
}

func deploymentFor(spec domain.ManifestSpec) *appsv1.Deployment {
	labels := map[string]string{"app": spec.ProjectName}
	replicas := replicaCount
	history := revisionHistory
	maxUnavailable := intstr.FromInt(0)
	maxSurge := intstr.FromInt(1)

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      spec.ProjectName,
			Namespace: spec.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas:             &replicas,
			RevisionHistoryLimit: &history,
			Selector:             &metav1.LabelSelector{MatchLabels: labels},
			Strategy: appsv1.DeploymentStrategy{
				Type: appsv1.RollingUpdateDeploymentStrategyType,
				RollingUpdate: &appsv1.RollingUpdateDeployment{
					MaxUnavailable: &maxUnavailable,
					MaxSurge:       &maxSurge,
				},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  spec.ProjectName,
							Image: spec.Image,
							Ports: []corev1.ContainerPort{
								{ContainerPort: int32(spec.Port)},
							},
							ReadinessProbe: &corev1.Probe{
								ProbeHandler: corev1.ProbeHandler{
									TCPSocket: &corev1.TCPSocketAction{Port: intstr.FromInt(spec.Port)},
								},
								InitialDelaySeconds: 5,
								PeriodSeconds:       5,
								FailureThreshold:    3,
							},
							LivenessProbe: &corev1.Probe{
								ProbeHandler: corev1.ProbeHandler{
									TCPSocket: &corev1.TCPSocketAction{Port: intstr.FromInt(spec.Port)},
								},
								InitialDelaySeconds: 30,
								PeriodSeconds:       10,
							},
							Resources: corev1.ResourceRequirements{
								Requests: corev1.ResourceList{
									corev1.ResourceMemory: resource.MustParse("128Mi"),
									corev1.ResourceCPU:    resource.MustParse("100m"),
								},
								Limits: corev1.ResourceList{
									corev1.ResourceMemory: resource.MustParse("512Mi"),
									corev1.ResourceCPU:    resource.MustParse("500m"),
								},
							},
						},
					},
				},
			},
		},
	}
}

func serviceFor(spec domain.ManifestSpec) *corev1.Service {
	labels := map[string]string{"app": spec.ProjectName}
	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      spec.ProjectName,
			Namespace: spec.Namespace,
			Labels:    labels,
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: labels,
			Ports: []corev1.ServicePort{
				{
					Port:       servicePort,
					TargetPort: intstr.FromInt(spec.Port),
				},
			},
		},
	}
}

func ingressFor(spec domain.ManifestSpec) *networkingv1.Ingress {
	pathType := networkingv1.PathTypePrefix
	return &networkingv1.Ingress{
		TypeMeta: metav1.TypeMeta{APIVersion: "networking.k8s.io/v1", Kind: "Ingress"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      spec.ProjectName,
			Namespace: spec.Namespace,
			Labels:    map[string]string{"app": spec.ProjectName},
		},
		Spec: networkingv1.IngressSpec{
			Rules: []networkingv1.IngressRule{
				{
					Host: spec.Host,
					IngressRuleValue: networkingv1.IngressRuleValue{
						HTTP: &networkingv1.HTTPIngressRuleValue{
							Paths: []networkingv1.HTTPIngressPath{
								{
									Path:     "/",
									PathType: &pathType,
									Backend: networkingv1.IngressBackend{
										Service: &networkingv1.IngressServiceBackend{
											Name: spec.ProjectName,
											Port: networkingv1.ServiceBackendPort{Number: servicePort},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

// renderManifest 把四个资源序列化为一份三连杠分隔的 YAML 文档，
// 存进执行记录供排查用。
func renderManifest(objs ...runtime.Object) (string, error) {
	docs := make([]string, 0, len(objs))
	for _, obj := range objs {
		data, err := yaml.Marshal(obj)
		if err != nil {
			return "", err
		}
		docs = append(docs, string(data))
	}
	return strings.Join(docs, "---\n"), nil
}

package transport

import "testing"

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		got  string
		want string
	}{
		{topics.DeviceBusiness("prod-dev", "gw-1"), "prod-dev/gw-1/business"},
		{topics.GatewayUpload("prod-gw", "gw-1"), "prod-gw/gw-1/upload/point/data"},
		{topics.GatewayDownload("prod-gw", "gw-1"), "prod-gw/gw-1/download/point/data"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("topic = %q, want %q", tt.got, tt.want)
		}
	}
}

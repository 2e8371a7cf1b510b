package transport

import "fmt"

// Topics builds vendor broker topic strings.
//
// The broker namespaces everything under product id and gateway uid.
// Device telemetry arrives on the gateway's upload topic; point writes
// leave on its download topic. There is no bridge-owned namespace: the
// vendor cloud dictates every topic shape.
type Topics struct{}

// DeviceBusiness returns the per-device business event topic.
// Subscribed with the device's own product id.
func (Topics) DeviceBusiness(productID, uid string) string {
	return fmt.Sprintf("%s/%s/business", productID, uid)
}

// GatewayUpload returns the gateway's point telemetry topic.
func (Topics) GatewayUpload(productID, uid string) string {
	return fmt.Sprintf("%s/%s/upload/point/data", productID, uid)
}

// GatewayDownload returns the gateway's command topic for point writes.
func (Topics) GatewayDownload(productID, uid string) string {
	return fmt.Sprintf("%s/%s/download/point/data", productID, uid)
}

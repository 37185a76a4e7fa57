package wpml

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/uavfleet/area2waypoint/internal/model"
)

// Options controls the emitted camera action parameters.
type Options struct {
	// Lens is the comma-separated payload lens list written into
	// orientedShoot actions and the template's imageFormat.
	Lens string

	// FocalLength in millimeters for orientedShoot actions.
	FocalLength float64
}

// DefaultOptions returns the options used when the caller declares none.
func DefaultOptions() Options {
	return Options{Lens: "ir,wide,zoom", FocalLength: 48}
}

// ErrNoRoutes is returned when emission is requested with no shot-bearing
// routes.
var ErrNoRoutes = errors.New("no routes with shot points to emit")

// mission config keys that belong to droneInfo/payloadInfo and must not be
// duplicated as scalar missionConfig children
var nestedConfigKeys = map[string]bool{
	"droneEnumValue":       true,
	"droneSubEnumValue":    true,
	"payloadEnumValue":     true,
	"payloadSubEnumValue":  true,
	"payloadPositionIndex": true,
}

// BuildWaylines serializes the executable waypoint mission: one Folder per
// route, one Placemark per shot, each with a reachPoint-triggered
// orientedShoot action.
func BuildWaylines(m *model.Mission, routeShots []model.RouteShots, opts Options) ([]byte, error) {
	if len(routeShots) == 0 {
		return nil, ErrNoRoutes
	}

	doc, docEl := newMissionDocument()
	docEl.AddChild(missionConfigElement(m))

	for _, rs := range routeShots {
		docEl.AddChild(waylinesFolder(m, rs, opts))
	}

	return serialize(doc)
}

// BuildTemplate serializes the editable waypoint template. A single
// template Folder (templateId 0) mirrors the first route, matching the
// structure flight-planning front ends expect for waypoint missions.
func BuildTemplate(m *model.Mission, routeShots []model.RouteShots, opts Options) ([]byte, error) {
	if len(routeShots) == 0 {
		return nil, ErrNoRoutes
	}
	rs := routeShots[0]

	doc, docEl := newMissionDocument()

	now := time.Now().UnixMilli()
	wel(docEl, "createTime", strconv.FormatInt(now, 10))
	wel(docEl, "updateTime", strconv.FormatInt(now, 10))
	docEl.AddChild(missionConfigElement(m))

	folder := etree.NewElement("Folder")
	wel(folder, "templateType", "waypoint")
	wel(folder, "templateId", "0")

	coordSys := wel(folder, "waylineCoordinateSysParam", "")
	wel(coordSys, "coordinateMode", "WGS84")
	wel(coordSys, "heightMode", m.ExecuteHeightMode)
	wel(coordSys, "positioningType", "GPS")

	wel(folder, "autoFlightSpeed", formatFloat(rs.Route.CruiseSpeed))
	globalHeight := 20.0
	if len(rs.Shots) > 0 {
		globalHeight = rs.Shots[0].ExecuteHeight
	}
	wel(folder, "globalHeight", formatHeight(globalHeight))
	wel(folder, "caliFlightEnable", "0")
	wel(folder, "gimbalPitchMode", "usePointSetting")

	heading := wel(folder, "globalWaypointHeadingParam", "")
	wel(heading, "waypointHeadingMode", "followWayline")
	wel(heading, "waypointHeadingAngle", "0")
	wel(heading, "waypointPoiPoint", "0.000000,0.000000,0.000000")
	wel(heading, "waypointHeadingPoiIndex", "0")

	wel(folder, "globalWaypointTurnMode", "toPointAndStopWithDiscontinuityCurvature")
	wel(folder, "globalUseStraightLine", "1")

	for idx, shot := range rs.Shots {
		folder.AddChild(templatePlacemark(idx, shot, opts))
	}

	payload := wel(folder, "payloadParam", "")
	wel(payload, "payloadPositionIndex", "0")
	wel(payload, "meteringMode", "average")
	wel(payload, "dewarpingEnable", "0")
	wel(payload, "returnMode", "singleReturnStrongest")
	wel(payload, "samplingRate", "240000")
	wel(payload, "scanningMode", "nonRepetitive")
	wel(payload, "modelColoringEnable", "0")
	wel(payload, "imageFormat", opts.Lens)

	docEl.AddChild(folder)
	return serialize(doc)
}

func newMissionDocument() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	kmlEl := doc.CreateElement("kml")
	kmlEl.CreateAttr("xmlns", NamespaceKML)
	kmlEl.CreateAttr("xmlns:wpml", NamespaceWPML)
	return doc, kmlEl.CreateElement("Document")
}

func serialize(doc *etree.Document) ([]byte, error) {
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing mission document: %w", err)
	}
	return out, nil
}

// wel appends a wpml-namespaced child element with optional text.
func wel(parent *etree.Element, tag, text string) *etree.Element {
	child := parent.CreateElement("wpml:" + tag)
	if text != "" {
		child.SetText(text)
	}
	return child
}

func missionConfigElement(m *model.Mission) *etree.Element {
	mc := etree.NewElement("wpml:missionConfig")

	for _, key := range sortedKeys(m.Config) {
		if nestedConfigKeys[key] {
			continue
		}
		wel(mc, key, m.Config[key])
	}
	if _, ok := m.Config["flyToWaylineMode"]; !ok {
		wel(mc, "flyToWaylineMode", "safely")
		wel(mc, "finishAction", "goHome")
		wel(mc, "exitOnRCLost", "executeLostAction")
		wel(mc, "executeRCLostAction", "goBack")
		wel(mc, "takeOffSecurityHeight", "20")
		wel(mc, "globalTransitionalSpeed", "15")
	}

	drone := wel(mc, "droneInfo", "")
	wel(drone, "droneEnumValue", valueOr(m.DroneInfo, "droneEnumValue", "67"))
	wel(drone, "droneSubEnumValue", valueOr(m.DroneInfo, "droneSubEnumValue", "0"))

	payload := wel(mc, "payloadInfo", "")
	wel(payload, "payloadEnumValue", valueOr(m.PayloadInfo, "payloadEnumValue", "53"))
	wel(payload, "payloadSubEnumValue", valueOr(m.PayloadInfo, "payloadSubEnumValue", "2"))
	wel(payload, "payloadPositionIndex", valueOr(m.PayloadInfo, "payloadPositionIndex", "0"))

	return mc
}

func waylinesFolder(m *model.Mission, rs model.RouteShots, opts Options) *etree.Element {
	folder := etree.NewElement("Folder")
	wel(folder, "templateId", "0")
	wel(folder, "executeHeightMode", m.ExecuteHeightMode)
	wel(folder, "waylineId", strconv.Itoa(rs.Route.ID))

	// Planar approximation is good enough for the informational distance
	// and duration fields; the flight controller ignores them.
	var total float64
	for i := 0; i+1 < len(rs.Shots); i++ {
		s0, s1 := rs.Shots[i], rs.Shots[i+1]
		total += math.Hypot(s1.Lon-s0.Lon, s1.Lat-s0.Lat) * 111320
	}
	wel(folder, "distance", strconv.FormatFloat(total, 'f', 6, 64))
	wel(folder, "duration", strconv.FormatFloat(total/rs.Route.CruiseSpeed, 'f', 6, 64))
	wel(folder, "autoFlightSpeed", formatFloat(rs.Route.CruiseSpeed))

	for idx, shot := range rs.Shots {
		folder.AddChild(waylinesPlacemark(idx, shot, rs.Route, opts))
	}

	return folder
}

func waylinesPlacemark(idx int, shot model.ShotPoint, route model.Route, opts Options) *etree.Element {
	pm := etree.NewElement("Placemark")
	pointCoordinates(pm, shot)

	wel(pm, "index", strconv.Itoa(idx))
	wel(pm, "executeHeight", formatHeight(shot.ExecuteHeight))
	wel(pm, "waypointSpeed", formatFloat(route.CruiseSpeed))

	heading := wel(pm, "waypointHeadingParam", "")
	wel(heading, "waypointHeadingMode", "followWayline")
	wel(heading, "waypointHeadingAngle", formatAngle(shot.Heading))
	wel(heading, "waypointPoiPoint", "0.000000,0.000000,0.000000")
	wel(heading, "waypointHeadingAngleEnable", "0")
	wel(heading, "waypointHeadingPoiIndex", "0")

	turn := wel(pm, "waypointTurnParam", "")
	wel(turn, "waypointTurnMode", "toPointAndStopWithDiscontinuityCurvature")
	wel(turn, "waypointTurnDampingDist", "0")
	wel(pm, "useStraightLine", "1")

	group := wel(pm, "actionGroup", "")
	wel(group, "actionGroupId", strconv.Itoa(idx))
	wel(group, "actionGroupStartIndex", strconv.Itoa(idx))
	wel(group, "actionGroupEndIndex", strconv.Itoa(idx))
	wel(group, "actionGroupMode", "sequence")
	trigger := wel(group, "actionTrigger", "")
	wel(trigger, "actionTriggerType", "reachPoint")
	group.AddChild(orientedShootAction(shot, opts, false))

	gimbal := wel(pm, "waypointGimbalHeadingParam", "")
	wel(gimbal, "waypointGimbalPitchAngle", "0")
	wel(gimbal, "waypointGimbalYawAngle", "0")
	wel(pm, "isRisky", "0")
	wel(pm, "waypointWorkType", "0")

	return pm
}

func templatePlacemark(idx int, shot model.ShotPoint, opts Options) *etree.Element {
	pm := etree.NewElement("Placemark")
	pointCoordinates(pm, shot)

	wel(pm, "index", strconv.Itoa(idx))
	wel(pm, "ellipsoidHeight", formatHeight(shot.ExecuteHeight))
	wel(pm, "height", formatHeight(shot.ExecuteHeight))
	wel(pm, "useGlobalHeight", "1")
	wel(pm, "useGlobalSpeed", "1")
	wel(pm, "useGlobalHeadingParam", "1")
	wel(pm, "useGlobalTurnParam", "1")
	wel(pm, "gimbalPitchAngle", formatAngle(shot.GimbalPitch))
	wel(pm, "useStraightLine", "0")

	group := wel(pm, "actionGroup", "")
	wel(group, "actionGroupId", strconv.Itoa(idx))
	wel(group, "actionGroupStartIndex", strconv.Itoa(idx))
	wel(group, "actionGroupEndIndex", strconv.Itoa(idx))
	wel(group, "actionGroupMode", "sequence")
	trigger := wel(group, "actionTrigger", "")
	wel(trigger, "actionTriggerType", "reachPoint")
	group.AddChild(orientedShootAction(shot, opts, true))

	wel(pm, "isRisky", "0")

	return pm
}

func pointCoordinates(pm *etree.Element, shot model.ShotPoint) {
	point := pm.CreateElement("Point")
	coords := point.CreateElement("coordinates")
	coords.SetText(fmt.Sprintf("\n            %s,%s\n          ",
		formatFloat(shot.Lon), formatFloat(shot.Lat)))
}

// orientedShootAction builds the capture action for one shot. forTemplate
// omits payloadLensIndex; the template declares lenses globally through
// payloadParam.imageFormat instead.
func orientedShootAction(shot model.ShotPoint, opts Options, forTemplate bool) *etree.Element {
	action := etree.NewElement("wpml:action")
	wel(action, "actionId", "0")
	wel(action, "actionActuatorFunc", "orientedShoot")

	param := wel(action, "actionActuatorFuncParam", "")
	wel(param, "gimbalPitchRotateAngle", formatAngle(shot.GimbalPitch))
	wel(param, "gimbalRollRotateAngle", "0")
	wel(param, "gimbalYawRotateAngle", formatAngle(shot.GimbalYaw))
	wel(param, "focusX", "0")
	wel(param, "focusY", "0")
	wel(param, "focusRegionWidth", "0")
	wel(param, "focusRegionHeight", "0")
	wel(param, "focalLength", formatAngle(opts.FocalLength))
	wel(param, "aircraftHeading", formatAngle(shot.Heading))
	wel(param, "accurateFrameValid", "0")
	wel(param, "payloadPositionIndex", "0")
	wel(param, "useGlobalPayloadLensIndex", "1")
	if !forTemplate {
		wel(param, "payloadLensIndex", opts.Lens)
	}
	wel(param, "targetAngle", "0")

	uid := strings.ReplaceAll(uuid.New().String(), "-", "")
	wel(param, "actionUUID", uid)
	wel(param, "imageWidth", "0")
	wel(param, "imageHeight", "0")
	wel(param, "AFPos", "0")
	wel(param, "gimbalPort", "0")
	wel(param, "orientedCameraType", "53")
	wel(param, "orientedFilePath", uid)
	wel(param, "orientedFileMD5", "")
	wel(param, "orientedFileSize", "0")
	wel(param, "orientedPhotoMode", "normalPhoto")

	return action
}

func valueOr(m map[string]string, key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatHeight(v float64) string {
	return strconv.FormatFloat(v, 'f', 10, 64)
}

func formatAngle(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}

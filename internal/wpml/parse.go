package wpml

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/uavfleet/area2waypoint/internal/model"
)

// ErrInvalidCoordinates is returned when a placemark's coordinate text
// cannot be parsed into longitude and latitude.
var ErrInvalidCoordinates = errors.New("invalid coordinates in placemark")

// defaults applied when an action group omits its gimbalRotate action
const (
	defaultPolicyPitch = -90.0
	defaultPolicyYaw   = 0.0
	defaultPolicyLens  = "wide,ir"
)

// ParseWaylines parses the waylines document of an area mission into the
// model. Each KML Folder becomes one route, in document order; points are
// sorted by index. Placemarks without coordinates are skipped, malformed
// numeric fields are an error.
func ParseWaylines(data []byte) (*model.Mission, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("reading waylines document: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("waylines document has no root element")
	}

	m := &model.Mission{
		Config:            map[string]string{},
		DroneInfo:         map[string]string{},
		PayloadInfo:       map[string]string{},
		ExecuteHeightMode: "relativeToStartPoint",
	}

	if mc := root.FindElement("//wpml:missionConfig"); mc != nil {
		for _, child := range mc.ChildElements() {
			switch child.Tag {
			case "droneInfo":
				collectScalars(child, m.DroneInfo)
			case "payloadInfo":
				collectScalars(child, m.PayloadInfo)
			default:
				if text := strings.TrimSpace(child.Text()); text != "" {
					m.Config[child.Tag] = text
				}
			}
		}
	}

	for _, folder := range root.FindElements("//Folder") {
		route, err := parseFolder(folder, m)
		if err != nil {
			return nil, err
		}
		m.Routes = append(m.Routes, route)
	}

	return m, nil
}

func collectScalars(el *etree.Element, into map[string]string) {
	for _, child := range el.ChildElements() {
		if text := strings.TrimSpace(child.Text()); text != "" {
			into[child.Tag] = text
		}
	}
}

func parseFolder(folder *etree.Element, m *model.Mission) (model.Route, error) {
	if mode := findText(folder, "wpml:executeHeightMode"); mode != "" {
		m.ExecuteHeightMode = mode
	}

	speed, err := findFloat(folder, "wpml:autoFlightSpeed", 1)
	if err != nil {
		return model.Route{}, err
	}
	templateID, err := findInt(folder, "wpml:templateId", 0)
	if err != nil {
		return model.Route{}, err
	}
	waylineID, err := findInt(folder, "wpml:waylineId", 0)
	if err != nil {
		return model.Route{}, err
	}

	route := model.Route{
		ID:          waylineID,
		TemplateID:  templateID,
		CruiseSpeed: speed,
	}

	for _, pm := range folder.SelectElements("Placemark") {
		point, ok, err := parsePlacemark(pm)
		if err != nil {
			return model.Route{}, err
		}
		if ok {
			route.Points = append(route.Points, point)
		}
		for _, agEl := range pm.SelectElements("wpml:actionGroup") {
			pol, err := parseActionGroup(agEl)
			if err != nil {
				return model.Route{}, err
			}
			route.Policies = append(route.Policies, pol)
		}
	}

	sort.Slice(route.Points, func(i, j int) bool {
		return route.Points[i].Index < route.Points[j].Index
	})
	return route, nil
}

// parsePlacemark extracts one path point. The second return is false when
// the placemark carries no coordinates and should be skipped.
func parsePlacemark(pm *etree.Element) (model.PathPoint, bool, error) {
	coordsEl := pm.FindElement(".//coordinates")
	if coordsEl == nil {
		return model.PathPoint{}, false, nil
	}
	text := strings.TrimSpace(coordsEl.Text())
	if text == "" {
		return model.PathPoint{}, false, nil
	}

	parts := strings.Split(text, ",")
	if len(parts) < 2 {
		return model.PathPoint{}, false, fmt.Errorf("%w: %q", ErrInvalidCoordinates, text)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.PathPoint{}, false, fmt.Errorf("%w: %q", ErrInvalidCoordinates, text)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.PathPoint{}, false, fmt.Errorf("%w: %q", ErrInvalidCoordinates, text)
	}

	index, err := findInt(pm, "wpml:index", -1)
	if err != nil {
		return model.PathPoint{}, false, err
	}
	height, err := findFloat(pm, "wpml:executeHeight", 0)
	if err != nil {
		return model.PathPoint{}, false, err
	}
	speed, err := findFloat(pm, "wpml:waypointSpeed", 1)
	if err != nil {
		return model.PathPoint{}, false, err
	}
	heading, err := findFloat(pm, ".//wpml:waypointHeadingParam/wpml:waypointHeadingAngle", 0)
	if err != nil {
		return model.PathPoint{}, false, err
	}

	point := model.PathPoint{
		Index:         index,
		Lon:           lon,
		Lat:           lat,
		ExecuteHeight: height,
		HeadingAngle:  heading,
		Speed:         speed,
	}

	if gimbal := pm.FindElement(".//wpml:waypointGimbalHeadingParam"); gimbal != nil {
		point.GimbalPitch, err = findFloat(gimbal, "wpml:waypointGimbalPitchAngle", 0)
		if err != nil {
			return model.PathPoint{}, false, err
		}
		point.GimbalYaw, err = findFloat(gimbal, "wpml:waypointGimbalYawAngle", 0)
		if err != nil {
			return model.PathPoint{}, false, err
		}
	}

	return point, true, nil
}

func parseActionGroup(agEl *etree.Element) (model.TriggerPolicy, error) {
	groupID, err := findInt(agEl, "wpml:actionGroupId", 0)
	if err != nil {
		return model.TriggerPolicy{}, err
	}
	start, err := findInt(agEl, "wpml:actionGroupStartIndex", 0)
	if err != nil {
		return model.TriggerPolicy{}, err
	}
	end, err := findInt(agEl, "wpml:actionGroupEndIndex", 0)
	if err != nil {
		return model.TriggerPolicy{}, err
	}
	mode := findText(agEl, "wpml:actionGroupMode")
	if mode == "" {
		mode = "sequence"
	}

	pol := model.TriggerPolicy{
		GroupID:          groupID,
		StartIndex:       start,
		EndIndex:         end,
		Mode:             mode,
		DefaultPitch:     defaultPolicyPitch,
		DefaultYaw:       defaultPolicyYaw,
		PayloadLensIndex: defaultPolicyLens,
	}

	if trigger := agEl.SelectElement("wpml:actionTrigger"); trigger != nil {
		pol.TriggerType = findText(trigger, "wpml:actionTriggerType")
		// a malformed trigger param leaves the policy ineligible rather
		// than failing the whole parse
		if raw := findText(trigger, "wpml:actionTriggerParam"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				pol.SpacingMeters = v
			}
		}
	}

	for _, actionEl := range agEl.SelectElements("wpml:action") {
		funcName := findText(actionEl, "wpml:actionActuatorFunc")
		param := actionEl.SelectElement("wpml:actionActuatorFuncParam")

		switch funcName {
		case "takePhoto":
			pol.HasCaptureAction = true
			if param != nil {
				if lens := findText(param, "wpml:payloadLensIndex"); lens != "" {
					pol.PayloadLensIndex = lens
				}
			}
		case "gimbalRotate":
			if param == nil {
				continue
			}
			if raw := findText(param, "wpml:gimbalPitchRotateAngle"); raw != "" {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return model.TriggerPolicy{}, fmt.Errorf("action group %d: bad gimbal pitch %q: %w", groupID, raw, err)
				}
				pol.DefaultPitch = v
			}
			if raw := findText(param, "wpml:gimbalYawRotateAngle"); raw != "" {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return model.TriggerPolicy{}, fmt.Errorf("action group %d: bad gimbal yaw %q: %w", groupID, raw, err)
				}
				pol.DefaultYaw = v
			}
		}
	}

	return pol, nil
}

// findText returns the trimmed text of the element at path, or "".
func findText(el *etree.Element, path string) string {
	child := el.FindElement(path)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

func findFloat(el *etree.Element, path string, def float64) (float64, error) {
	raw := findText(el, path)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("element %s: bad numeric value %q: %w", path, raw, err)
	}
	return v, nil
}

func findInt(el *etree.Element, path string, def int) (int, error) {
	raw := findText(el, path)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("element %s: bad integer value %q: %w", path, raw, err)
	}
	return v, nil
}

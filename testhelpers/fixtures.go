package testhelpers

import "fmt"

// Pubspec renders a minimal Flutter pubspec.yaml carrying the given version.
func Pubspec(version string) string {
	return fmt.Sprintf(`name: example_app
description: An example application.
publish_to: 'none'
version: %s

environment:
  sdk: '>=3.0.0 <4.0.0'

dependencies:
  flutter:
    sdk: flutter
`, version)
}

// MauiProject renders a .NET MAUI .csproj with a display version and an
// integer build counter.
func MauiProject(displayVersion string, applicationVersion int) string {
	return fmt.Sprintf(`<Project Sdk="Microsoft.NET.Sdk">

	<PropertyGroup>
		<TargetFrameworks>net8.0-android;net8.0-ios</TargetFrameworks>
		<OutputType>Exe</OutputType>
		<ApplicationTitle>Example</ApplicationTitle>

		<!-- Versions -->
		<ApplicationDisplayVersion>%s</ApplicationDisplayVersion>
		<ApplicationVersion>%d</ApplicationVersion>
	</PropertyGroup>

</Project>
`, displayVersion, applicationVersion)
}

// XamarinAndroidProject renders a Xamarin Android .csproj. When namespaced is
// true the root element declares the MSBuild default namespace, which real
// Xamarin files do inconsistently.
func XamarinAndroidProject(version string, versionCode int, namespaced bool) string {
	xmlns := ""
	if namespaced {
		xmlns = ` xmlns="http://schemas.microsoft.com/developer/msbuild/2003"`
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<Project ToolsVersion="4.0" DefaultTargets="Build"%s>
  <PropertyGroup>
    <Configuration Condition=" '$(Configuration)' == '' ">Debug</Configuration>
    <OutputType>Library</OutputType>
    <ApplicationVersion>%s</ApplicationVersion>
    <AndroidVersionCode>%d</AndroidVersionCode>
    <AndroidApplication>True</AndroidApplication>
  </PropertyGroup>
</Project>
`, xmlns, version, versionCode)
}

// XamarinIOSProject renders a Xamarin iOS .csproj with the bundle version tags.
func XamarinIOSProject(version string, namespaced bool) string {
	xmlns := ""
	if namespaced {
		xmlns = ` xmlns="http://schemas.microsoft.com/developer/msbuild/2003"`
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<Project ToolsVersion="4.0" DefaultTargets="Build"%s>
  <PropertyGroup>
    <Configuration Condition=" '$(Configuration)' == '' ">Debug</Configuration>
    <OutputType>Exe</OutputType>
    <ApplicationVersion>%s</ApplicationVersion>
    <CFBundleVersion>%s</CFBundleVersion>
    <CFBundleShortVersionString>%s</CFBundleShortVersionString>
  </PropertyGroup>
</Project>
`, xmlns, version, version, version)
}

// XamarinUWPProject renders a Windows-family .csproj: discovered by the
// version strategy but never written.
func XamarinUWPProject() string {
	return `<?xml version="1.0" encoding="utf-8"?>
<Project ToolsVersion="14.0" DefaultTargets="Build" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <PropertyGroup>
    <OutputType>AppContainerExe</OutputType>
    <TargetPlatformVersion>10.0.19041.0</TargetPlatformVersion>
  </PropertyGroup>
</Project>
`
}
